package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/paintboard/internal/logging"
	"github.com/aretw0/paintboard/internal/presentation/tui"
	"github.com/aretw0/paintboard/pkg/domain"
	"github.com/aretw0/paintboard/pkg/session"
	"github.com/muesli/termenv"
)

// HelpMarkdown documents the play commands.
const HelpMarkdown = `# Commands

- **toggle X Y** (t): paint the cell if empty, erase it if painted
- **undo** (u): revert the last action
- **redo** (r): re-apply the last undone action
- **show** (ls): draw the board
- **history** (h): list the done and undone actions
- **help** (?): this screen
- **quit** (q): leave; the board stays in the store
`

// PlayOptions configures an interactive board session.
type PlayOptions struct {
	SessionID string
	In        io.Reader
	Out       io.Writer
	// Interactive enables the prompt and glamour-styled help.
	Interactive bool
	// Profile colors the grid; termenv.Ascii prints plain text. The zero value is TrueColor.
	Profile termenv.Profile
	Logger  *slog.Logger
}

// Play runs a line-oriented board editor until quit, EOF or ctx is done.
func Play(ctx context.Context, mgr *session.Manager, opts PlayOptions) error {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	p := &player{mgr: mgr, opts: opts, render: tui.NewRenderer(opts.Interactive)}

	snap, err := mgr.LoadOrStart(ctx, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to start board: %w", err)
	}
	opts.Logger.Info("Board opened", "session_id", opts.SessionID, "painted", len(snap.Painted))
	p.printf(">>> Board '%s' active. Type 'help' for commands.\n", opts.SessionID)
	p.show(snap)

	lines := bufio.NewScanner(opts.In)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if opts.Interactive {
			p.printf("> ")
		}
		if !lines.Scan() {
			return lines.Err()
		}

		quit, err := p.exec(ctx, lines.Text())
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if quit {
			p.printf(">>> Bye.\n")
			return nil
		}
	}
}

// ReportInterrupt tells the user which signal ended the session. A nil sig prints nothing.
func ReportInterrupt(w io.Writer, sig os.Signal) {
	if sig == nil {
		return
	}
	fmt.Fprintf(w, "\n>>> Interrupted (%s). The board stays in the store.\n", sig)
}

type player struct {
	mgr    *session.Manager
	opts   PlayOptions
	render func(string) (string, error)
}

func (p *player) printf(format string, args ...any) {
	fmt.Fprintf(p.opts.Out, format, args...)
}

func (p *player) show(snap *domain.Snapshot) {
	fmt.Fprint(p.opts.Out, tui.RenderGrid(p.opts.Profile, snap.Painted))
}

// exec runs one command line. Input mistakes are reported, never returned.
func (p *player) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	id := p.opts.SessionID
	switch strings.ToLower(fields[0]) {
	case "toggle", "t":
		c, err := parseCoordinate(fields[1:])
		if err != nil {
			p.printf("!!! %v\n", err)
			return false, nil
		}
		out, err := p.mgr.Toggle(ctx, id, c)
		return false, p.report(out, err)
	case "undo", "u":
		out, err := p.mgr.Undo(ctx, id)
		return false, p.report(out, err)
	case "redo", "r":
		out, err := p.mgr.Redo(ctx, id)
		return false, p.report(out, err)
	case "show", "ls":
		snap, err := p.mgr.LoadOrStart(ctx, id)
		if err != nil {
			return false, err
		}
		p.show(snap)
	case "history", "h":
		snap, err := p.mgr.LoadOrStart(ctx, id)
		if err != nil {
			return false, err
		}
		p.history(snap)
	case "help", "?":
		out, err := p.render(HelpMarkdown)
		if err != nil {
			p.opts.Logger.Debug("help render failed", "err", err)
		}
		p.printf("%s", out)
	case "quit", "q", "exit":
		return true, nil
	default:
		p.printf("!!! unknown command %q, type 'help'\n", fields[0])
	}
	return false, nil
}

func (p *player) report(out *session.Outcome, err error) error {
	if err != nil {
		return err
	}
	if out.Action == nil {
		p.printf("--- nothing to do\n")
		return nil
	}
	p.printf("--- %s\n", out.Action)
	p.show(out.Board)
	return nil
}

func (p *player) history(snap *domain.Snapshot) {
	if len(snap.Done) == 0 && len(snap.Undone) == 0 {
		p.printf("(no history)\n")
		return
	}
	for i, a := range snap.Done {
		p.printf("%3d  %s\n", i+1, a)
	}
	// Undone is popped from the end, so the next redo is printed first.
	for i := len(snap.Undone) - 1; i >= 0; i-- {
		p.printf("  ~  %s\n", snap.Undone[i])
	}
}

func parseCoordinate(args []string) (domain.Coordinate, error) {
	if len(args) == 1 {
		// Also accept the "x,y" key form.
		return domain.ParseKey(domain.CoordinateKey(args[0]))
	}
	if len(args) != 2 {
		return domain.Coordinate{}, fmt.Errorf("%w: usage: toggle X Y", domain.ErrInvalidCoordinate)
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: x: %v", domain.ErrInvalidCoordinate, err)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: y: %v", domain.ErrInvalidCoordinate, err)
	}
	return domain.Pt(x, y), nil
}
