// vindu-demo opens a window, clears it with a slowly cycling color and logs
// the input it receives. It doubles as a smoke test for the platform
// backends: cursor confinement, fullscreen and vsync are all reachable from
// the keyboard.
//
// Controls: Escape quits, F11 toggles fullscreen, C toggles cursor
// confinement to the middle of the window, G grabs the cursor (center lock
// with a hidden cursor), V toggles vsync.
package main

import (
	"fmt"
	"image"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vindu-dev/vindu/event"
	"github.com/vindu-dev/vindu/input"
	"github.com/vindu-dev/vindu/internal/gl"
	"github.com/vindu-dev/vindu/timer"
	"github.com/vindu-dev/vindu/window"
)

var (
	flagWidth   int
	flagHeight  int
	flagTitle   string
	flagGL      []int
	flagCompat  bool
	flagVSync   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vindu-demo",
	Short: "Open a window and exercise the event loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}
		return run()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().IntVar(&flagWidth, "width", 1024, "client area width in pixels")
	rootCmd.Flags().IntVar(&flagHeight, "height", 576, "client area height in pixels")
	rootCmd.Flags().StringVar(&flagTitle, "title", "vindu demo", "window title")
	rootCmd.Flags().IntSliceVar(&flagGL, "gl", []int{3, 3}, "requested OpenGL version, major,minor")
	rootCmd.Flags().BoolVar(&flagCompat, "compat", false, "request a compatibility profile context")
	rootCmd.Flags().BoolVar(&flagVSync, "vsync", true, "enable vertical sync")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every event")
}

func run() error {
	if len(flagGL) != 2 {
		return fmt.Errorf("--gl wants major,minor, got %v", flagGL)
	}

	opts := []window.Option{
		window.WithSize(flagWidth, flagHeight),
		window.WithGLVersion(flagGL[0], flagGL[1]),
	}
	if flagCompat {
		opts = append(opts, window.WithCompatProfile())
	}
	if flagVSync {
		opts = append(opts, window.WithVSync())
	}

	win, err := window.New(flagTitle, opts...)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()

	glctx, err := gl.Load(win.ProcAddress)
	if err != nil {
		return fmt.Errorf("load GL: %w", err)
	}
	log.Info("context up",
		"vendor", glctx.GetString(gl.Vendor),
		"renderer", glctx.GetString(gl.Renderer),
		"version", glctx.GetString(gl.Version))

	in := input.NewManager()
	tm := timer.New()
	confined := false
	grabbed := false
	vsync := flagVSync

	for !win.CloseRequested() {
		evs, err := win.PollEvents(in)
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		for _, ev := range evs {
			log.Debug("event", "ev", fmt.Sprintf("%T%+v", ev, ev))
			if re, ok := ev.(event.Resize); ok {
				glctx.Viewport(0, 0, int32(re.Width), int32(re.Height))
			}
		}

		if in.IsKeyPressed(event.KeyEscape) {
			break
		}
		if in.IsKeyPressed(event.KeyF11) {
			if err := win.SetFullscreen(!win.Fullscreen()); err != nil {
				log.Warn("fullscreen switch failed", "err", err)
			}
		}
		if in.IsKeyPressed(event.KeyV) {
			vsync = !vsync
			if err := win.SetVSync(vsync); err != nil {
				log.Warn("vsync switch failed", "err", err)
			}
		}
		if in.IsKeyPressed(event.KeyC) {
			confined = !confined
			if confined {
				w, h := win.Size()
				region := image.Rect(w/4, h/4, 3*w/4, 3*h/4)
				err = win.SetCursorRegion(&region)
			} else {
				err = win.SetCursorRegion(nil)
			}
			if err != nil {
				log.Warn("cursor region change failed", "err", err)
			}
			log.Info("cursor confinement", "on", confined)
		}
		if in.IsKeyPressed(event.KeyG) {
			grabbed = !grabbed
			if err := win.SetCursorGrabbed(grabbed); err != nil {
				log.Warn("cursor grab failed", "err", err)
			}
			shape := window.CursorArrow
			if grabbed {
				shape = window.CursorHidden
			}
			if err := win.SetCursor(shape); err != nil {
				log.Warn("cursor shape change failed", "err", err)
			}
			log.Info("cursor grab", "on", grabbed)
		}
		if typed := in.Typed(); typed != "" {
			log.Info("typed", "text", typed)
		}

		age, _ := tm.Tick()
		t := age.Seconds()
		glctx.ClearColor(
			float32(0.5+0.5*math.Sin(t)),
			float32(0.5+0.5*math.Sin(t+2*math.Pi/3)),
			float32(0.5+0.5*math.Sin(t+4*math.Pi/3)),
			1,
		)
		glctx.Clear(gl.ColorBufferBit)

		if err := win.SwapBuffers(); err != nil {
			return fmt.Errorf("swap: %w", err)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}
