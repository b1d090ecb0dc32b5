package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hive/internal/socketdir"
	"hive/internal/tui"
	"hive/internal/wire"
)

// newAttachCmd builds `hive attach <name>`.
func newAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <name>",
		Short: "Attach to a running workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(args[0])
		},
	}
}

// paletteCatalogue is the fixed Ctrl+p command list (spec §4.7's Palette
// mode: "number keys 1-9 execute the Nth visible item"), grounded on the
// teacher's root.go subcommand registry, generalized to a filterable list
// of client/server toggles instead of a static cobra tree.
func paletteCatalogue() []tui.PaletteItem {
	return []tui.PaletteItem{
		{Label: "Toggle smart mode (hide lanes with no backlog)", ID: "smart-mode"},
		{Label: "Toggle architect position (top/left)", ID: "architect-left"},
		{Label: "Set layout: grid", ID: "layout-grid"},
		{Label: "Set layout: stack", ID: "layout-stack"},
		{Label: "Nudge all eligible workers", ID: "nudge-all"},
		{Label: "Help", ID: "help"},
		{Label: "Detach", ID: "detach"},
	}
}

// runAttach is hive's interactive client: it owns the terminal (raw mode,
// SIGWINCH), a reconnecting tui.Client, and the tui.App state machine that
// turns server frames into renderer input and keystrokes into Actions.
// Grounded on the teacher's internal/overlay/overlay.go Run (raw mode +
// SIGWINCH + a render-on-signal loop), generalized from one PTY's output to
// a tiled multi-pane layout driven by a socket client instead of a local
// child process.
func runAttach(name string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("attach requires an interactive terminal")
	}
	if !socketdir.IsRunning(name) {
		return fmt.Errorf("workspace %q is not running (start it with: hive up %s)", name, name)
	}

	app := tui.NewApp()
	app.Palette = tui.NewPalette(paletteCatalogue())

	var mu sync.Mutex
	redraw := make(chan struct{}, 1)
	wake := func() {
		select {
		case redraw <- struct{}{}:
		default:
		}
	}

	client, err := tui.Dial(socketdir.Socket(name), tui.Hooks{
		OnState: func(msg wire.StateMsg) {
			mu.Lock()
			app.ApplyState(msg)
			mu.Unlock()
			wake()
		},
		OnOutput: func(msg wire.OutputMsg) {
			mu.Lock()
			app.ApplyOutput(msg)
			mu.Unlock()
			wake()
		},
		OnPaneExited: func(msg wire.PaneExitedMsg) {
			mu.Lock()
			app.ApplyPaneExited(msg)
			mu.Unlock()
			wake()
		},
		OnError: func(msg wire.ErrorMsg) {
			fmt.Fprintln(os.Stderr, "[hive] server error:", msg.Message)
		},
		OnDisconnect: func(error) {
			wake()
		},
	})
	if err != nil {
		return fmt.Errorf("connect to %q: %w", name, err)
	}
	defer client.Close()
	go client.Run()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}
	defer func() {
		term.Restore(fd, oldState)
		fmt.Print("\033[?25h\033[0m\r\n")
	}()

	out := termenv.NewOutput(os.Stdout)
	renderer := tui.NewRenderer(out)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	inputCh := make(chan []byte, 16)
	go readStdin(inputCh)

	sendResize := func() {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			return
		}
		mu.Lock()
		layout := app.ComputeLayout(tui.Rect{W: cols, H: rows})
		sizes := collectSizes(layout)
		mu.Unlock()
		if len(sizes) > 0 {
			client.Send(wire.KindResize, wire.ResizeMsg{Panes: sizes})
		}
		wake()
	}
	sendResize()

	done := false
	for !done {
		select {
		case <-sigCh:
			sendResize()

		case <-redraw:
			drainRedraw(redraw)
			cols, rows, err := term.GetSize(fd)
			if err != nil {
				continue
			}
			mu.Lock()
			layout := app.ComputeLayout(tui.Rect{W: cols, H: rows})
			var buf bytes.Buffer
			renderer.Frame(&buf, app, layout, tui.Rect{W: cols, H: rows})
			mu.Unlock()
			os.Stdout.Write(buf.Bytes())

		case chunk, ok := <-inputCh:
			if !ok {
				done = true
				continue
			}
			mu.Lock()
			keys := tui.DecodeKeys(chunk)
			var actions []tui.Action
			for _, k := range keys {
				actions = append(actions, app.HandleKey(k))
			}
			mu.Unlock()
			for _, act := range actions {
				if dispatchAction(app, client, act, &mu) {
					done = true
				}
			}
			wake()
		}
	}
	return nil
}

// readStdin feeds raw terminal bytes to ch until stdin closes.
func readStdin(ch chan<- []byte) {
	defer close(ch)
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			ch <- cp
		}
		if err != nil {
			return
		}
	}
}

func drainRedraw(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// collectSizes turns a layout Result into the per-pane geometry a Resize
// command needs, subtracting the title-bar row renderPane reserves.
func collectSizes(layout tui.Result) []wire.PaneSize {
	var sizes []wire.PaneSize
	addRect := func(id string, rect tui.Rect) {
		rows := rect.H - 1
		if rows < 1 {
			rows = 1
		}
		sizes = append(sizes, wire.PaneSize{PaneID: id, Rows: rows, Cols: rect.W})
	}
	if layout.ZoomedPaneID != "" {
		return sizes
	}
	if layout.Architect != nil {
		addRect(layout.Architect.PaneID, layout.Architect.Rect)
	}
	for _, pl := range layout.Workers {
		addRect(pl.PaneID, pl.Rect)
	}
	return sizes
}

// dispatchAction performs one Action returned by App.HandleKey: forwards
// input bytes, sends server commands, recurses into batch items, or
// handles a palette selection locally. Returns true if the attach loop
// should exit (the user chose Detach).
func dispatchAction(app *tui.App, client *tui.Client, act tui.Action, mu *sync.Mutex) bool {
	switch act.Kind {
	case tui.ActionInput:
		mu.Lock()
		target := app.FocusedPane
		mu.Unlock()
		if target != "" {
			client.Send(wire.KindInput, wire.InputMsg{PaneID: target, Bytes: act.Bytes})
		}

	case tui.ActionCommand:
		if act.Command == wire.KindDetach {
			client.Send(wire.KindDetach, wire.DetachMsg{})
			return true
		}
		client.Send(act.Command, act.Payload)

	case tui.ActionBatch:
		for _, item := range act.Items {
			if dispatchAction(app, client, item, mu) {
				return true
			}
		}

	case tui.ActionLocal:
		if item, ok := act.Payload.(tui.PaletteItem); ok {
			return applyPaletteItem(app, client, item, mu)
		}
	}
	return false
}

// applyPaletteItem runs the effect of a palette selection. Most items
// mutate local client state and/or send one command; "detach" ends the
// attach loop the same way Ctrl+q does.
func applyPaletteItem(app *tui.App, client *tui.Client, item tui.PaletteItem, mu *sync.Mutex) bool {
	mu.Lock()
	defer mu.Unlock()
	switch item.ID {
	case "smart-mode":
		app.SmartMode = !app.SmartMode
	case "architect-left":
		app.ArchitectLeft = !app.ArchitectLeft
		client.Send(wire.KindSetArchitectLeft, wire.SetArchitectLeftMsg{Left: app.ArchitectLeft})
	case "layout-grid":
		app.LayoutMode = "grid"
		client.Send(wire.KindLayout, wire.LayoutMsg{Mode: "grid"})
	case "layout-stack":
		app.LayoutMode = "stack"
		client.Send(wire.KindLayout, wire.LayoutMsg{Mode: "stack"})
	case "nudge-all":
		client.Send(wire.KindNudge, wire.NudgeMsg{})
	case "help":
		app.Mode = tui.ModeHelp
	case "detach":
		client.Send(wire.KindDetach, wire.DetachMsg{})
		return true
	}
	return false
}
