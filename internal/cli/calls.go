package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/set-night/calldesk/internal/calllog"
	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
)

func newPhonesCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "phones",
		Short: "List phone numbers, most recent activity first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.viewer(0, 0)
			if err := v.LoadPhones(cmd.Context()); err != nil {
				return err
			}
			v.SetPhoneFilter(filter)

			all := v.PhoneList()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PHONE\tLATEST")
			for p := 1; p <= all.Pager.TotalPages; p++ {
				v.SetPhonePage(p)
				for _, e := range v.PhoneList().Entries {
					latest := "-"
					if e.LatestTimestamp != nil {
						latest = *e.LatestTimestamp
					}
					fmt.Fprintf(w, "%s\t%s\n", e.Phone, latest)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "keep phones containing this substring")
	return cmd
}

// sessionFlags select which turns are loaded before sessions are derived.
type sessionFlags struct {
	phone string
	from  string
	to    string
	limit int
	pages int
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&f.from, "from", "", "range start, RFC3339 or 2006-01-02T15:04 in DISPLAY_TZ")
	cmd.Flags().StringVar(&f.to, "to", "", "range end, same formats as --from")
	cmd.Flags().IntVar(&f.limit, "limit", config.DefaultFetchLimit, "turns per request (1-1000)")
	cmd.Flags().IntVar(&f.pages, "pages", 1, "server pages to fetch by following continuation tokens")
	_ = cmd.MarkFlagRequired("phone")
}

func (a *app) parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return calllog.ParseRangeInput(s, a.api.Location())
}

func (a *app) loadSessions(cmd *cobra.Command, f *sessionFlags, pageSize int) (*calllog.Viewer, error) {
	from, err := a.parseBound(f.from)
	if err != nil {
		return nil, err
	}
	to, err := a.parseBound(f.to)
	if err != nil {
		return nil, err
	}

	v := a.viewer(f.limit, pageSize)
	v.SelectPhone(f.phone)
	if err := v.SetRange(from, to); err != nil {
		return nil, err
	}
	if err := v.LoadCalls(cmd.Context()); err != nil {
		return nil, err
	}
	for i := 1; i < f.pages; i++ {
		err := v.LoadMore(cmd.Context())
		if errors.Is(err, domain.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

func newSessionsCmd(a *app) *cobra.Command {
	var f sessionFlags
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Group a phone's turns into call sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadSessions(cmd, &f, pageSize)
			if err != nil {
				return err
			}
			v.SetPage(page)
			view := v.View()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "phone %s: %d sessions, %d turns, page %d/%d\n",
				view.Phone, view.SessionCount, view.TurnCount, view.Pager.Page, view.Pager.TotalPages)
			if view.HasMore {
				fmt.Fprintln(out, "more turns on the server, raise --pages to load them")
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tLATEST\tTURNS\tCALL\tUSER\tASSISTANT")
			for _, s := range view.Sessions {
				call := "-"
				if s.HasCall() {
					call = s.CallID
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
					s.Key, s.LatestTimestamp, s.TurnCount, call,
					calllog.Truncate(s.PreviewUser, config.MaxPreviewLen),
					calllog.Truncate(calllog.PlainText(s.PreviewAssistant), config.MaxPreviewLen))
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "session page to print")
	cmd.Flags().IntVar(&pageSize, "page-size", config.SessionsPerPage, "sessions per page")
	return cmd
}

func newLogsCmd(a *app) *cobra.Command {
	var f sessionFlags
	var key string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the event log around one session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadSessions(cmd, &f, 0)
			if err != nil {
				return err
			}
			events, win, err := v.Logs(cmd.Context(), key)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window %s .. %s (%d min), %d events\n",
				win.Start().UTC().Format(time.RFC3339), win.End().UTC().Format(time.RFC3339), win.Minutes, len(events))
			for _, e := range events {
				fmt.Fprintf(out, "%s %s\n", time.UnixMilli(e.TimestampMs).UTC().Format(time.RFC3339), e.Message)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&key, "session", "", "session key as printed by sessions (required)")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newRecordingsCmd(a *app) *cobra.Command {
	var callSID string
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "List the recordings of a call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := a.viewer(0, 0).Recordings(cmd.Context(), callSID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SID\tFORMAT\tDURATION\tCREATED")
			for _, r := range refs {
				dur := "-"
				if r.Duration != nil {
					dur = r.Duration.StringFixed(1)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.SID, r.Format, dur, r.DateCreated)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&callSID, "call-sid", "", "call identifier")
	_ = cmd.MarkFlagRequired("call-sid")
	return cmd
}

func newRecordingCmd(a *app) *cobra.Command {
	var sid, format, output string
	cmd := &cobra.Command{
		Use:   "recording",
		Short: "Download the audio of one recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := domain.RecordingFormat(format)
			if f != domain.RecordingMP3 && f != domain.RecordingWAV {
				return fmt.Errorf("unsupported format %q", format)
			}
			if output == "-" {
				return a.backend.StreamRecording(cmd.Context(), sid, f, cmd.OutOrStdout())
			}
			if output == "" {
				output = sid + "." + format
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := a.backend.StreamRecording(cmd.Context(), sid, f, file); err != nil {
				file.Close()
				os.Remove(output)
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "saved", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&sid, "sid", "", "recording identifier")
	cmd.Flags().StringVar(&format, "format", string(domain.RecordingMP3), "mp3 or wav")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <sid>.<format>)")
	_ = cmd.MarkFlagRequired("sid")
	return cmd
}

func newTranscriptCmd(a *app) *cobra.Command {
	var sid string
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Print the transcription of one recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.backend.Transcription(cmd.Context(), sid)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(t.Segments) == 0 {
				fmt.Fprintln(out, t.Text)
				return nil
			}
			for _, s := range t.Segments {
				if s.Start != nil {
					fmt.Fprintf(out, "[%7.2f] %s\n", *s.Start, s.Text)
				} else {
					fmt.Fprintln(out, s.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sid, "sid", "", "recording identifier")
	_ = cmd.MarkFlagRequired("sid")
	return cmd
}

func newDeleteTurnCmd(a *app) *cobra.Command {
	var phone, ts string
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-turn",
		Short: "Delete one turn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, yes, fmt.Sprintf("Delete turn %s of %s?", ts, phone))
			if err != nil || !ok {
				return err
			}
			if err := a.backend.DeleteTurn(cmd.Context(), phone, ts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&ts, "ts", "", "turn timestamp exactly as stored")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("ts")
	return cmd
}

func newDeleteSessionCmd(a *app) *cobra.Command {
	var callSID string
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-session",
		Short: "Delete every turn of a call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, yes, fmt.Sprintf("Delete all turns of call %s?", callSID))
			if err != nil || !ok {
				return err
			}
			n, err := a.backend.DeleteSession(cmd.Context(), callSID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d turns\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&callSID, "call-sid", "", "call identifier")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("call-sid")
	return cmd
}
