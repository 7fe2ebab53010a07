package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/service"
)

func newPromptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Read or replace the system prompt",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the system prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.backend.GetPrompt(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Content)
			return nil
		},
	}

	var file string
	set := &cobra.Command{
		Use:   "set [text]",
		Short: "Replace the system prompt from an argument or --file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read prompt: %w", err)
				}
				content = string(data)
			case len(args) == 1:
				content = args[0]
			default:
				return fmt.Errorf("pass the prompt text or --file")
			}
			if err := a.backend.PutPrompt(cmd.Context(), content); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved")
			return nil
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "", "read the prompt from this file")

	cmd.AddCommand(get, set)
	return cmd
}

func newFAQCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Manage FAQ entries",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List FAQ entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			faqs, err := a.backend.ListFAQs(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "QUESTION\tANSWER\tUPDATED")
			for _, f := range faqs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.Question, oneLine(f.Answer), f.UpdatedAt)
			}
			return w.Flush()
		},
	}

	get := &cobra.Command{
		Use:   "get <question>",
		Short: "Print one FAQ answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.backend.GetFAQ(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Answer)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Create a FAQ entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.backend.CreateFAQ(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created")
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <question> <answer>",
		Short: "Replace the answer of a FAQ entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.backend.UpdateFAQ(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <question>",
		Short: "Delete a FAQ entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, yes, fmt.Sprintf("Delete FAQ %q?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := a.backend.DeleteFAQ(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(list, get, add, edit, del)
	return cmd
}

// taskFields binds the editable task flags.
type taskFields struct {
	phone, address, start, request string
}

func (t *taskFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&t.address, "address", "", "address")
	cmd.Flags().StringVar(&t.start, "start", "", "start date and time")
	cmd.Flags().StringVar(&t.request, "request", "", "what the assistant should do")
}

// patch keeps only the flags given on the command line.
func (t *taskFields) patch(cmd *cobra.Command) domain.TaskPatch {
	var p domain.TaskPatch
	if cmd.Flags().Changed("phone") {
		p.PhoneNumber = &t.phone
	}
	if cmd.Flags().Changed("address") {
		p.Address = &t.address
	}
	if cmd.Flags().Changed("start") {
		p.StartDatetime = &t.start
	}
	if cmd.Flags().Changed("request") {
		p.Request = &t.request
	}
	return p
}

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage scheduled tasks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.backend.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPHONE\tSTART\tADDRESS\tREQUEST")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Name, t.PhoneNumber, t.StartsAt(), t.Address, oneLine(t.RequestText()))
			}
			return w.Flush()
		},
	}

	var created taskFields
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.backend.CreateTask(cmd.Context(), domain.Task{
				Name:          args[0],
				PhoneNumber:   created.phone,
				Address:       created.address,
				StartDatetime: created.start,
				Request:       created.request,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created", args[0])
			return nil
		},
	}
	created.register(create)

	var updated taskFields
	update := &cobra.Command{
		Use:   "update <name>",
		Short: "Change the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := updated.patch(cmd)
			if patch == (domain.TaskPatch{}) {
				return fmt.Errorf("nothing to update")
			}
			if _, err := a.backend.UpdateTask(cmd.Context(), args[0], patch); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	updated.register(update)

	var yes bool
	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, yes, fmt.Sprintf("Delete task %q?", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := a.backend.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(list, create, update, del)
	return cmd
}

// configDoc is a backend configuration document edited as YAML.
type configDoc struct {
	name  string
	short string
	get   func(ctx context.Context, c *service.BackendClient) (any, error)
	put   func(ctx context.Context, c *service.BackendClient, data []byte) error
}

var extToolsDoc = configDoc{
	name:  "ext-tools",
	short: "External HTTP tools the assistant may call",
	get: func(ctx context.Context, c *service.BackendClient) (any, error) {
		return c.GetExtTools(ctx)
	},
	put: func(ctx context.Context, c *service.BackendClient, data []byte) error {
		var cfg domain.ExtToolsConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse ext tools: %w", err)
		}
		if cfg.ExtTools == nil {
			cfg.ExtTools = []domain.ExtTool{}
		}
		return c.PutExtTools(ctx, cfg)
	},
}

var funcConfigDoc = configDoc{
	name:  "func-config",
	short: "Function-calling configuration",
	get: func(ctx context.Context, c *service.BackendClient) (any, error) {
		return c.GetFuncConfig(ctx)
	},
	put: func(ctx context.Context, c *service.BackendClient, data []byte) error {
		var cfg domain.FuncConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse func config: %w", err)
		}
		if cfg.Tools == nil {
			cfg.Tools = []any{}
		}
		return c.PutFuncConfig(ctx, cfg)
	},
}

func newConfigDocCmd(a *app, doc configDoc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   doc.name,
		Short: doc.short,
	}

	var out string
	get := &cobra.Command{
		Use:   "get",
		Short: "Print the document as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := doc.get(cmd.Context(), a.backend)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", doc.name, err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	get.Flags().StringVarP(&out, "file", "f", "", "write to this file instead of stdout")

	var in string
	put := &cobra.Command{
		Use:   "put",
		Short: "Replace the document from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("read %s: %w", in, err)
			}
			if err := doc.put(cmd.Context(), a.backend, data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved")
			return nil
		},
	}
	put.Flags().StringVarP(&in, "file", "f", "", "YAML file to upload")
	_ = put.MarkFlagRequired("file")

	cmd.AddCommand(get, put)
	return cmd
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
