package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/bz888/deepcli/internal/api"
	"github.com/bz888/deepcli/internal/config"
	"github.com/bz888/deepcli/internal/logger"
	"github.com/bz888/deepcli/internal/render"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// UI is the interactive chat terminal: a conversation view, a question input
// and an optional debug console.
type UI struct {
	app          *tview.Application
	conversation *tview.TextView
	input        *tview.TextArea
	debugConsole *tview.TextView

	client  api.DeepSeekClientInterface
	session *Session
}

// Run starts the interactive chat UI and blocks until the user quits.
func Run(client api.DeepSeekClientInterface, opts api.Options) error {
	ui := &UI{
		app:     tview.NewApplication(),
		client:  client,
		session: NewSession(opts),
	}
	ui.app.EnablePaste(true)
	ui.app.EnableMouse(true)

	ui.conversation = initConversationView(ui.app)
	ui.input = initQuestionInput()
	ui.debugConsole = initDebugConsole(ui.app)

	if err := logger.Init(config.Dev, config.LogPath, tview.ANSIWriter(ui.debugConsole)); err != nil {
		return err
	}
	defer logger.Close()

	subFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.conversation, 0, 1, false).
		AddItem(ui.input, 8, 2, true)
	mainFlex := tview.NewFlex().
		AddItem(subFlex, 0, 2, false)

	if config.Dev {
		mainFlex.AddItem(ui.debugConsole, 0, 1, false)
	}

	ui.setInputCapture()

	fmt.Fprint(ui.conversation, "Type a question and press Enter. \\help lists directives.\n")

	return ui.app.SetRoot(mainFlex, true).SetFocus(ui.input).Run()
}

func initConversationView(app *tview.Application) *tview.TextView {
	textView := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle("Conversation").SetBorder(true)
	textView.SetScrollable(true)
	textView.ScrollToEnd()
	return textView
}

func initQuestionInput() *tview.TextArea {
	textArea := tview.NewTextArea()
	textArea.SetTitle("Question").SetBorder(true)
	return textArea
}

func initDebugConsole(app *tview.Application) *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

func (ui *UI) setInputCapture() {
	ui.conversation.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			ui.app.SetFocus(ui.input)
		}
		return event
	})

	ui.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyESC:
			if ui.conversation.GetText(false) != "" {
				ui.app.SetFocus(ui.conversation)
			}
		case tcell.KeyEnter:
			content := strings.TrimSpace(ui.input.GetText())
			if content == "" {
				return nil
			}
			ui.input.SetText("", true)

			directive, arg := ParseDirective(content)
			if directive != DirectiveNone {
				ui.handleDirective(directive, arg)
				return nil
			}

			ui.input.SetDisabled(true)
			go func() {
				ui.exchange(content)
				ui.app.QueueUpdateDraw(func() {
					ui.input.SetDisabled(false)
				})
			}()
			return nil
		}
		return event
	})
}

func (ui *UI) handleDirective(directive Directive, arg string) {
	switch directive {
	case DirectiveHelp:
		ui.listHelp()
	case DirectiveQuit:
		ui.app.Stop()
	case DirectiveClear:
		ui.session.Clear()
		fmt.Fprint(ui.conversation, "\nCleared pending input and attachment\n")
	case DirectiveFile:
		ui.session.StageFile(arg)
		if arg == "" {
			fmt.Fprint(ui.conversation, "\nAttachment cleared\n")
		} else {
			fmt.Fprintf(ui.conversation, "\nAttachment staged for next question: %s\n", arg)
		}
	}
}

// exchange runs one build/send/render cycle. Errors are printed into the
// conversation view and the loop stays alive.
func (ui *UI) exchange(content string) {
	localLogger := logger.New("chat ui")

	fmt.Fprintf(ui.conversation, "\n\n[red::]You:[-]\n%s\n\n", tview.Escape(content))

	req, err := ui.session.BuildRequest(content)
	if err != nil {
		localLogger.Error().Err(err).Msg("failed to build request")
		fmt.Fprintf(ui.conversation, "[red]error: %v[-]\n", err)
		return
	}

	localLogger.Info().Str("model", req.Model).Msg("dispatching question")

	resp, err := ui.client.Chat(context.Background(), req)
	if err != nil {
		localLogger.Error().Err(err).Msg("chat request failed")
		fmt.Fprintf(ui.conversation, "[red]error: %v[-]\n", err)
		return
	}

	fmt.Fprint(ui.conversation, "[green::]Bot:[-]\n")
	out := tview.ANSIWriter(ui.conversation)
	if err := render.Response(out, out, resp.Choices[0].Message.Content, ui.session.opts.JSONMode); err != nil {
		localLogger.Error().Err(err).Msg("failed to render response")
		return
	}

	ui.session.Record(req.Messages[len(req.Messages)-1], resp.Choices[0].Message)
}

func (ui *UI) listHelp() {
	fmt.Fprint(ui.conversation, "\nDirectives:\n")
	fmt.Fprint(ui.conversation, "- \\file <path>: attach a file to the next question (\\file alone unstages it)\n")
	fmt.Fprint(ui.conversation, "- \\clear: drop the staged attachment, keeping the conversation\n")
	fmt.Fprint(ui.conversation, "- \\help: display this help message\n")
	fmt.Fprint(ui.conversation, "- \\bye: exit\n")
}
