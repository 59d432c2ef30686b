package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/vskim/vskim/pkg/keypoints"
	"github.com/vskim/vskim/pkg/session"
	"github.com/vskim/vskim/pkg/ui"
	"github.com/vskim/vskim/pkg/video"
	"github.com/vskim/vskim/pkg/watcher"
)

func main() {
	kpPath := flag.String("keypoints", "", "Annotation table (CSV) to overlay")
	cfgPath := flag.String("config", "", "Project config (YAML) for the keypoint list")
	noResume := flag.Bool("no-resume", false, "Ignore the saved session position")
	help := flag.Bool("help", false, "Show help")
	version := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: vskim [options] video.mp4")
		fmt.Println("\nA terminal skimmer for videos and keypoint annotations.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *version {
		fmt.Println("vskim version 0.1.0")
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Println("Usage: vskim [options] video.mp4")
		os.Exit(1)
	}
	// Session state is keyed by absolute path.
	videoPath := flag.Arg(0)
	if abs, err := filepath.Abs(videoPath); err == nil {
		videoPath = abs
	}

	// The TUI owns the terminal; decode diagnostics go to a log file.
	if logFile := openLogFile(); logFile != nil {
		defer logFile.Close()
		video.SetLogger(zerolog.New(logFile).With().Timestamp().Logger())
	}

	clip, err := video.Open(videoPath)
	if err != nil {
		fmt.Printf("Error opening video: %v\n", err)
		os.Exit(1)
	}

	var table *keypoints.Table
	if *kpPath != "" {
		table, err = keypoints.LoadCSV(*kpPath)
		if err != nil {
			fmt.Printf("Error loading keypoints: %v\n", err)
			os.Exit(1)
		}
		table, err = keypoints.MergeScorers(table)
		if err != nil {
			fmt.Printf("Error merging scorers: %v\n", err)
			os.Exit(1)
		}
	}

	header := headerFor(table, *cfgPath)
	var store *keypoints.Store
	if header != nil {
		store = keypoints.NewStore(header, clip.FrameCount())
	}

	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	m := ui.NewModel(table, store, theme)
	if err := m.Skimmer().SetClip(clip); err != nil {
		fmt.Printf("Error loading video: %v\n", err)
		os.Exit(1)
	}

	sess := openSession(videoPath, &m, *noResume)
	if sess != nil {
		defer sess.Close()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	var w *watcher.TableWatcher
	if *kpPath != "" {
		w, err = watcher.Watch(*kpPath, 0, func() {
			t, err := keypoints.LoadCSV(*kpPath)
			if err == nil {
				t, err = keypoints.MergeScorers(t)
			}
			p.Send(ui.TableReloadedMsg{Table: t, Err: err})
		})
		if err != nil {
			fmt.Printf("Warning: cannot watch %s: %v\n", *kpPath, err)
		} else {
			defer w.Close()
		}
	}

	final, err := p.Run()
	if err != nil {
		fmt.Printf("Error running vskim: %v\n", err)
		os.Exit(1)
	}

	if sess != nil {
		if fm, ok := final.(ui.Model); ok {
			if path, frame, lo, hi, ok := fm.SessionState(); ok {
				sess.Touch(session.State{Path: path, LastFrame: frame, RangeMin: lo, RangeMax: hi})
			}
		}
	}
}

// openLogFile opens the diagnostics log under the user cache directory,
// returning nil when unavailable.
func openLogFile() *os.File {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(dir, "vskim"), 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "vskim", "vskim.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil
	}
	return f
}

// headerFor resolves the keypoint header: the table's own header wins,
// falling back to one derived from the project config.
func headerFor(table *keypoints.Table, cfgPath string) *keypoints.Header {
	if table != nil {
		return table.Header
	}
	if cfgPath == "" {
		return nil
	}
	cfg, err := keypoints.LoadConfig(cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	return keypoints.HeaderFromConfig(cfg)
}

// openSession opens the session store and restores the saved position.
func openSession(videoPath string, m *ui.Model, noResume bool) *session.Store {
	dbPath := session.DefaultPath()
	if dbPath == "" {
		return nil
	}
	sess, err := session.Open(dbPath)
	if err != nil {
		return nil
	}
	if noResume {
		return sess
	}

	st, ok, err := sess.Resume(videoPath)
	if err != nil || !ok {
		return sess
	}
	sk := m.Skimmer()
	if err := sk.SetFrameRange(&st.RangeMin, &st.RangeMax); err == nil {
		sk.SetFrame(st.LastFrame)
	}
	return sess
}
