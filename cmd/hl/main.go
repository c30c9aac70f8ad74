package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hireline/internal/app"
	"hireline/internal/config"
	"hireline/internal/db"
	"hireline/internal/engine"
	"hireline/internal/migrate"
	"hireline/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "hl",
	Short: "Hireline CLI",
	Long: `Hireline tracks candidates through client hiring pipelines.
- Workspace: your .hireline directory holding the database; hireline.yml configures the server and seeded step types.
- Client: a hiring company; positions, step types, and interviewers belong to a client.
- Position: an open role with a tech-stack tag set and an ordered interview pipeline.
- Application: one candidate applying to one position; candidates are deduplicated by email and may apply to a position once.
- Status: the application's place in the pipeline; every change is journaled as a STATUS_CHANGED event.
- Event log: append-only diary per application, view with 'hl log tail'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("HIRELINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("client", "", "client id (overrides workspace default)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("client", rootCmd.PersistentFlags().Lookup("client"))
}

func registerCommands() {
	rootCmd.AddCommand(clientCmd())
	rootCmd.AddCommand(positionCmd())
	rootCmd.AddCommand(applicationCmd())
	rootCmd.AddCommand(stepTypeCmd())
	rootCmd.AddCommand(stepCmd())
	rootCmd.AddCommand(assignmentCmd())
	rootCmd.AddCommand(interviewerCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func clientCmd() *cobra.Command {
	c := &cobra.Command{Use: "client", Short: "Manage clients"}
	c.AddCommand(clientAddCmd())
	c.AddCommand(clientListCmd())
	c.AddCommand(clientShowCmd())
	c.AddCommand(clientUseCmd())
	return c
}

func clientAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				c, err := e.CreateClient(ctx, engine.ClientCreateOptions{Name: name})
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "client name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func clientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.ListClients(ctx)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
}

func clientShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				c, err := e.GetClient(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	return cmd
}

func clientUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <id>",
		Short: "Set current client for this workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := strings.TrimSpace(args[0])
			if clientID == "" {
				return fmt.Errorf("client id is required")
			}
			workspace := viper.GetString("workspace")
			if err := setEnvValue(filepath.Join(workspace, ".env"), "HIRELINE_CLIENT", clientID); err != nil {
				return err
			}
			fmt.Printf("Set HIRELINE_CLIENT=%s in %s/.env\n", clientID, workspace)
			return nil
		},
	}
	return cmd
}

func positionCmd() *cobra.Command {
	p := &cobra.Command{Use: "position", Short: "Manage positions"}
	p.AddCommand(positionAddCmd())
	p.AddCommand(positionListCmd())
	p.AddCommand(positionShowCmd())
	p.AddCommand(positionUpdateCmd())
	p.AddCommand(positionDeleteCmd())
	return p
}

func positionAddCmd() *cobra.Command {
	var title, description string
	var stacks []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				clientID, err := app.ResolveClient(ctx, e.Cfg, viper.GetString("client"), e.Repo)
				if err != nil {
					return err
				}
				p, err := e.CreatePosition(ctx, engine.PositionCreateOptions{
					ClientID:    clientID,
					Title:       title,
					Description: description,
					TechStacks:  stacks,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "position title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringSliceVar(&stacks, "stack", nil, "tech stack (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func positionListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				clientID := ""
				if !all {
					var err error
					clientID, err = app.ResolveClient(ctx, e.Cfg, viper.GetString("client"), e.Repo)
					if err != nil {
						return err
					}
				}
				items, err := e.ListPositions(ctx, clientID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Tech stacks"})
				for _, p := range items {
					tw.AppendRow(table.Row{p.ID, p.Title, p.Status, strings.Join(p.TechStacks, ", ")})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list positions for every client")
	return cmd
}

func positionShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a position with its pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.GetPosition(ctx, args[0])
				if err != nil {
					return err
				}
				steps, err := e.ListStepsForPosition(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(map[string]any{"position": p, "steps": steps})
			})
		},
	}
	return cmd
}

func positionUpdateCmd() *cobra.Command {
	var title, description, status string
	var stacks []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var opts engine.PositionUpdateOptions
				if cmd.Flags().Changed("title") {
					opts.Title = &title
				}
				if cmd.Flags().Changed("description") {
					opts.Description = &description
				}
				if cmd.Flags().Changed("status") {
					opts.Status = &status
				}
				if cmd.Flags().Changed("stack") {
					if stacks == nil {
						stacks = []string{}
					}
					opts.TechStacks = stacks
				}
				p, err := e.UpdatePosition(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "position title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&status, "status", "", "status (open, closed)")
	cmd.Flags().StringSliceVar(&stacks, "stack", nil, "replace tech stacks (repeatable)")
	return cmd
}

func positionDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				p, err := e.DeletePosition(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	return cmd
}

func applicationCmd() *cobra.Command {
	a := &cobra.Command{
		Use:   "application",
		Short: "Manage candidate applications",
		Long:  "Applications connect a candidate to a position. Candidates are matched by email, a candidate applies to a position at most once, and every status change is journaled.",
	}
	a.AddCommand(applicationAddCmd())
	a.AddCommand(applicationListCmd())
	a.AddCommand(applicationShowCmd())
	a.AddCommand(applicationUpdateCmd())
	a.AddCommand(applicationDeleteCmd())
	return a
}

func applicationAddCmd() *cobra.Command {
	var positionID, name, email, resume string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a candidate application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				a, err := e.CreateApplication(ctx, positionID, engine.CandidateInput{
					Name:       name,
					Email:      email,
					ResumeLink: optionalString(resume),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
	}
	cmd.Flags().StringVar(&positionID, "position", "", "position id")
	cmd.Flags().StringVar(&name, "name", "", "candidate name")
	cmd.Flags().StringVar(&email, "email", "", "candidate email")
	cmd.Flags().StringVar(&resume, "resume", "", "resume link")
	_ = cmd.MarkFlagRequired("position")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func applicationListCmd() *cobra.Command {
	var positionID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications for a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				items, err := e.ListApplicationsForPosition(ctx, positionID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Candidate", "Email", "Status", "Applied"})
				for _, a := range items {
					name, email := "", ""
					if a.Candidate != nil {
						name, email = a.Candidate.Name, a.Candidate.Email
					}
					tw.AppendRow(table.Row{a.ID, name, email, a.Status, a.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&positionID, "position", "", "position id")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

func applicationShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an application with candidate and events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				a, err := e.GetApplication(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
	}
	return cmd
}

func applicationUpdateCmd() *cobra.Command {
	var status, notifiedAt, stepID string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an application",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var opts engine.ApplicationUpdateOptions
				opts.Status = status
				if cmd.Flags().Changed("notified-at") {
					opts.ClientNotifiedAt = &notifiedAt
				}
				if cmd.Flags().Changed("step") {
					opts.CurrentInterviewStepID = &stepID
				}
				a, err := e.UpdateApplication(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&notifiedAt, "notified-at", "", "client notified timestamp (RFC 3339, empty clears)")
	cmd.Flags().StringVar(&stepID, "step", "", "current interview step id (empty clears)")
	return cmd
}

func applicationDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				a, err := e.DeleteApplication(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
	}
	return cmd
}

func stepTypeCmd() *cobra.Command {
	st := &cobra.Command{Use: "steptype", Short: "Manage interview step types"}
	st.AddCommand(stepTypeAddCmd())
	st.AddCommand(stepTypeListCmd())
	st.AddCommand(stepTypeShowCmd())
	st.AddCommand(stepTypeUpdateCmd())
	st.AddCommand(stepTypeDeleteCmd())
	return st
}

func stepTypeAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a step type for the current client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				clientID, err := app.ResolveClient(ctx, e.Cfg, viper.GetString("client"), e.Repo)
				if err != nil {
					return err
				}
				st, err := e.CreateStepType(ctx, engine.StepTypeCreateOptions{ClientID: clientID, Name: name})
				if err != nil {
					return err
				}
				return printJSONOrTable(st)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "step type name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func stepTypeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List step types for the current client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				clientID, err := app.ResolveClient(ctx, e.Cfg, viper.GetString("client"), e.Repo)
				if err != nil {
					return err
				}
				items, err := e.ListStepTypes(ctx, clientID)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
}

func stepTypeShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a step type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				clientID, err := app.ResolveClient(ctx, e.Cfg, viper.GetString("client"), e.Repo)
				if err != nil {
					return err
				}
				st, err := e.GetStepType(ctx, args[0], clientID)
				if err != nil {
					return err
				}
				return printJSONOrTable(st)
			})
		},
	}
	return cmd
}

func stepTypeUpdateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a step type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				clientID, err := app.ResolveClient(ctx, e.Cfg, viper.GetString("client"), e.Repo)
				if err != nil {
					return err
				}
				var opts engine.StepTypeUpdateOptions
				if cmd.Flags().Changed("name") {
					opts.Name = &name
				}
				st, err := e.UpdateStepType(ctx, args[0], clientID, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(st)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "step type name")
	return cmd
}

func stepTypeDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a step type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				clientID, err := app.ResolveClient(ctx, e.Cfg, viper.GetString("client"), e.Repo)
				if err != nil {
					return err
				}
				st, err := e.DeleteStepType(ctx, args[0], clientID)
				if err != nil {
					return err
				}
				return printJSONOrTable(st)
			})
		},
	}
	return cmd
}

func stepCmd() *cobra.Command {
	s := &cobra.Command{Use: "step", Short: "Manage interview steps"}
	s.AddCommand(stepAddCmd())
	s.AddCommand(stepShowCmd())
	s.AddCommand(stepUpdateCmd())
	s.AddCommand(stepDeleteCmd())
	return s
}

func stepAddCmd() *cobra.Command {
	var positionID, name, typeID, assignmentID, schedulingLink, emailTemplate string
	var seq int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a step to a position's pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.CreateStep(ctx, engine.StepCreateOptions{
					PositionID:           positionID,
					SequenceNumber:       seq,
					Name:                 name,
					TypeID:               typeID,
					OriginalAssignmentID: optionalString(assignmentID),
					SchedulingLink:       optionalString(schedulingLink),
					EmailTemplate:        optionalString(emailTemplate),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	cmd.Flags().StringVar(&positionID, "position", "", "position id")
	cmd.Flags().IntVar(&seq, "seq", 1, "sequence number")
	cmd.Flags().StringVar(&name, "name", "", "step name")
	cmd.Flags().StringVar(&typeID, "type", "", "step type id")
	cmd.Flags().StringVar(&assignmentID, "assignment", "", "take-home assignment id")
	cmd.Flags().StringVar(&schedulingLink, "scheduling-link", "", "scheduling link")
	cmd.Flags().StringVar(&emailTemplate, "email-template", "", "email template")
	_ = cmd.MarkFlagRequired("position")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func stepShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.GetStep(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	return cmd
}

func stepUpdateCmd() *cobra.Command {
	var name, typeID, schedulingLink, emailTemplate string
	var seq int
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var opts engine.StepUpdateOptions
				if cmd.Flags().Changed("seq") {
					opts.SequenceNumber = &seq
				}
				if cmd.Flags().Changed("name") {
					opts.Name = &name
				}
				if cmd.Flags().Changed("type") {
					opts.TypeID = &typeID
				}
				if cmd.Flags().Changed("scheduling-link") {
					opts.SchedulingLink = &schedulingLink
				}
				if cmd.Flags().Changed("email-template") {
					opts.EmailTemplate = &emailTemplate
				}
				s, err := e.UpdateStep(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	cmd.Flags().IntVar(&seq, "seq", 0, "sequence number")
	cmd.Flags().StringVar(&name, "name", "", "step name")
	cmd.Flags().StringVar(&typeID, "type", "", "step type id")
	cmd.Flags().StringVar(&schedulingLink, "scheduling-link", "", "scheduling link (empty clears)")
	cmd.Flags().StringVar(&emailTemplate, "email-template", "", "email template (empty clears)")
	return cmd
}

func stepDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				s, err := e.DeleteStep(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	return cmd
}

func assignmentCmd() *cobra.Command {
	a := &cobra.Command{Use: "assignment", Short: "Manage take-home assignments"}
	a.AddCommand(assignmentAddCmd())
	a.AddCommand(assignmentShowCmd())
	return a
}

func assignmentAddCmd() *cobra.Command {
	var name, url string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a take-home assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				oa, err := e.CreateOriginalAssignment(ctx, engine.OriginalAssignmentCreateOptions{Name: name, URL: url})
				if err != nil {
					return err
				}
				return printJSONOrTable(oa)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "assignment name")
	cmd.Flags().StringVar(&url, "url", "", "assignment url")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func assignmentShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a take-home assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				oa, err := e.GetOriginalAssignment(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(oa)
			})
		},
	}
	return cmd
}

func interviewerCmd() *cobra.Command {
	iv := &cobra.Command{Use: "interviewer", Short: "Manage interviewers"}
	iv.AddCommand(interviewerAddCmd())
	iv.AddCommand(interviewerShowCmd())
	iv.AddCommand(interviewerUpdateCmd())
	iv.AddCommand(interviewerDeleteCmd())
	return iv
}

func interviewerAddCmd() *cobra.Command {
	var name, email string
	var stacks []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an interviewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var clientID *string
				if override := viper.GetString("client"); override != "" {
					resolved, err := app.ResolveClient(ctx, e.Cfg, override, e.Repo)
					if err != nil {
						return err
					}
					clientID = &resolved
				}
				iv, err := e.CreateInterviewer(ctx, engine.InterviewerCreateOptions{
					ClientID:   clientID,
					Name:       name,
					Email:      email,
					TechStacks: stacks,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(iv)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "interviewer name")
	cmd.Flags().StringVar(&email, "email", "", "interviewer email")
	cmd.Flags().StringSliceVar(&stacks, "stack", nil, "tech stack (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func interviewerShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an interviewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				iv, err := e.GetInterviewer(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(iv)
			})
		},
	}
	return cmd
}

func interviewerUpdateCmd() *cobra.Command {
	var name, email string
	var stacks []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an interviewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				var opts engine.InterviewerUpdateOptions
				if cmd.Flags().Changed("name") {
					opts.Name = &name
				}
				if cmd.Flags().Changed("email") {
					opts.Email = &email
				}
				if cmd.Flags().Changed("stack") {
					if stacks == nil {
						stacks = []string{}
					}
					opts.TechStacks = stacks
				}
				iv, err := e.UpdateInterviewer(ctx, args[0], opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(iv)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "interviewer name")
	cmd.Flags().StringVar(&email, "email", "", "interviewer email")
	cmd.Flags().StringSliceVar(&stacks, "stack", nil, "replace tech stacks (repeatable)")
	return cmd
}

func interviewerDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an interviewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				iv, err := e.DeleteInterviewer(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(iv)
			})
		},
	}
	return cmd
}

func configCmd() *cobra.Command {
	c := &cobra.Command{Use: "config", Short: "Manage workspace config"}
	c.AddCommand(configInitCmd())
	c.AddCommand(configShowCmd())
	return c
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default hireline.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	return cmd
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Interview event journal",
		Long:  "The diary of every application: submissions and status changes, newest first.",
	}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var applicationID, name string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				events, err := e.LatestEvents(ctx, n, applicationID, name)
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&applicationID, "application", "", "application id filter")
	cmd.Flags().StringVar(&name, "name", "", "event name filter")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			cfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			conn, err := db.Open(workspace)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			e := engine.New(conn)
			e.Cfg = cfg
			if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("base-path") && cfg.Server.BasePath != "" {
				basePath = cfg.Server.BasePath
			}
			handler, err := server.New(server.Config{Engine: e, BasePath: basePath, EventsTail: cfg.Limits.EventsTail})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Hireline API on http://%s%s (OpenAPI at /openapi.json, Swagger UI at /docs)\n", addr, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8484", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/api", "API base path")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	conn, err := db.Open(workspace)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	e := engine.New(conn)
	e.Cfg = cfg
	return fn(ctx, e)
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setEnvValue(path, key, value string) error {
	var lines []string
	seen := false
	f, err := os.Open(path)
	if err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, key+"=") {
				lines = append(lines, fmt.Sprintf("%s=%s", key, value))
				seen = true
			} else {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return err
		}
		f.Close()
	} else if !os.IsNotExist(err) {
		return err
	}
	if !seen {
		lines = append(lines, fmt.Sprintf("%s=%s", key, value))
	}
	content := strings.Join(lines, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
