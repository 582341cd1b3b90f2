package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskdash/internal/client"
	"taskdash/internal/config"
	"taskdash/internal/db"
	"taskdash/internal/domain"
	"taskdash/internal/migrate"
	"taskdash/internal/repo"
	"taskdash/internal/server"
	"taskdash/internal/store"
	"taskdash/internal/view"
	"taskdash/internal/wizard"
)

var rootCmd = &cobra.Command{
	Use:   "td",
	Short: "Taskdash CLI",
	Long: `Taskdash is a project and task dashboard.
Run 'td serve' to start the API, then point the other commands at it:
projects and tasks are created, filtered, and toggled over HTTP, with
dashboard stats computed live on the server.`,
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
	viper.SetEnvPrefix("TASKDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("server", "", "server URL (default from taskdash.yml)")
	rootCmd.PersistentFlags().String("token", "", "bearer token from 'td login'")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(commentCmd())
	rootCmd.AddCommand(activityCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(wizardCmd())
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetString("workspace"))
}

func newClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	base := viper.GetString("server")
	if base == "" {
		base = cfg.Client.ServerURL
	}
	c := client.New(base)
	if d := cfg.ClientTimeout(); d > 0 {
		c.Timeout = d
	}
	c.BearerToken = viper.GetString("token")
	return c, nil
}

func withClient(ctx context.Context, fn func(context.Context, *client.Client) error) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	return fn(ctx, c)
}

func serveCmd() *cobra.Command {
	var addr, basePath, storeKind string
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if basePath == "" {
				basePath = cfg.Server.BasePath
			}
			if storeKind == "" {
				storeKind = cfg.Server.Store
			}
			seed = seed || cfg.Server.Seed

			secret := os.Getenv("TASKDASH_JWT_SECRET")
			if secret == "" {
				secret = cfg.Server.JWTSecret
			}
			if secret == "" {
				return fmt.Errorf("jwt secret required: set TASKDASH_JWT_SECRET or server.jwt_secret in taskdash.yml")
			}

			var st store.Store
			switch storeKind {
			case "memory":
				st = store.NewMemStore()
			case "sqlite":
				workspace := viper.GetString("workspace")
				conn, err := db.Open(db.Config{Workspace: workspace})
				if err != nil {
					return err
				}
				defer conn.Close()
				if err := migrate.Migrate(conn); err != nil {
					return err
				}
				st = repo.New(conn)
			default:
				return fmt.Errorf("unknown store %q (memory or sqlite)", storeKind)
			}

			if seed {
				if err := store.Seed(cmd.Context(), st); err != nil {
					// A previously seeded sqlite store trips the unique
					// checks; that is not fatal.
					log.Printf("seed: %v", err)
				}
			}

			handler, err := server.New(server.Config{
				Store:    st,
				BasePath: basePath,
				Auth: server.AuthConfig{
					JWTSecret: secret,
					TokenTTL:  cfg.TokenTTL(),
				},
			})
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
			fmt.Printf("Serving Taskdash API on http://%s%s (store=%s, OpenAPI at %s/openapi.json, Swagger UI at /docs)\n",
				addr, basePath, storeKind, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path")
	cmd.Flags().StringVar(&storeKind, "store", "", "backing store (memory or sqlite)")
	cmd.Flags().BoolVar(&seed, "seed", false, "load demo data on startup")
	return cmd
}

func loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password required")
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				res, err := c.Login(ctx, username, password)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				fmt.Printf("logged in as %s (%s)\n", res.User.Name, res.User.Role)
				fmt.Println(res.Token)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func projectCmd() *cobra.Command {
	prj := &cobra.Command{Use: "project", Short: "Manage projects"}
	prj.AddCommand(projectListCmd())
	prj.AddCommand(projectCreateCmd())
	prj.AddCommand(projectShowCmd())
	prj.AddCommand(projectUpdateCmd())
	prj.AddCommand(projectDeleteCmd())
	return prj
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				items, err := c.ListProjects(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Category", "Priority", "Status", "Progress", "Due"})
				for _, p := range items {
					tw.AppendRow(table.Row{p.ID, p.Name, p.Category, p.Priority, p.Status, fmt.Sprintf("%d%%", p.Progress), p.DueDate})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func projectCreateCmd() *cobra.Command {
	var in domain.InsertProject
	var progress int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("progress") {
				in.Progress = &progress
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				p, err := c.CreateProject(ctx, in)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "project name")
	cmd.Flags().StringVar(&in.Description, "description", "", "description")
	cmd.Flags().StringVar(&in.Category, "category", "", "category (web, mobile, design, marketing)")
	cmd.Flags().StringVar(&in.Priority, "priority", "", "priority (high, medium, low)")
	cmd.Flags().StringVar(&in.StartDate, "start", "", "start date (RFC 3339)")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "due date (RFC 3339)")
	cmd.Flags().IntVar(&progress, "progress", 0, "initial progress 0-100")
	cmd.Flags().Int64SliceVar(&in.TeamMembers, "members", nil, "team member user ids")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("priority")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func projectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				p, err := c.GetProject(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
}

func projectUpdateCmd() *cobra.Command {
	var name, description, category, priority, status, start, due string
	var progress int
	var members []int64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch domain.ProjectPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &priority
			}
			if cmd.Flags().Changed("status") {
				patch.Status = &status
			}
			if cmd.Flags().Changed("start") {
				patch.StartDate = &start
			}
			if cmd.Flags().Changed("due") {
				patch.DueDate = &due
			}
			if cmd.Flags().Changed("progress") {
				patch.Progress = &progress
			}
			if cmd.Flags().Changed("members") {
				patch.TeamMembers = &members
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				p, err := c.UpdateProject(ctx, id, patch)
				if err != nil {
					return err
				}
				return printJSONOrTable(p)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")
	cmd.Flags().StringVar(&status, "status", "", "status (active, completed, paused)")
	cmd.Flags().StringVar(&start, "start", "", "start date")
	cmd.Flags().StringVar(&due, "due", "", "due date")
	cmd.Flags().IntVar(&progress, "progress", 0, "progress 0-100")
	cmd.Flags().Int64SliceVar(&members, "members", nil, "team member user ids (replaces the list)")
	return cmd
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				return c.DeleteProject(ctx, id)
			})
		},
	}
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks"}
	task.AddCommand(taskListCmd())
	task.AddCommand(taskGetCmd())
	task.AddCommand(taskCreateCmd())
	task.AddCommand(taskUpdateCmd())
	task.AddCommand(taskToggleCmd())
	task.AddCommand(taskDeleteCmd())
	return task
}

func taskListCmd() *cobra.Command {
	var f domain.TaskFilters
	var search string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				// Server filters by project/assignee; status, priority,
				// and search paginate locally like the dashboard does.
				tasks, err := c.ListTasks(ctx, domain.TaskFilters{
					ProjectID:  f.ProjectID,
					AssigneeID: f.AssigneeID,
				})
				if err != nil {
					return err
				}
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				state := view.NewState()
				state.PageSize = cfg.UI.PageSize
				if pageSize > 0 {
					state.PageSize = pageSize
				}
				state = state.WithFilters(view.Filters{
					Status:   f.Status,
					Priority: f.Priority,
					Search:   search,
				}).WithPage(page)
				pg := state.Apply(tasks)
				if viper.GetBool("json") {
					return printJSON(pg)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Project", "Assignee", "Due"})
				for _, t := range pg.Items {
					tw.AppendRow(table.Row{t.ID, t.Title, t.Status, t.Priority, idOrBlank(t.ProjectID), idOrBlank(t.AssigneeID), strOrBlank(t.DueDate)})
				}
				tw.Render()
				fmt.Printf("page %d/%d (%d tasks)\n", pg.Page, pg.TotalPages, pg.Total)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&f.ProjectID, "project", 0, "project id filter")
	cmd.Flags().StringVar(&f.Status, "status", "", "status filter (todo, in_progress, completed)")
	cmd.Flags().StringVar(&f.Priority, "priority", "", "priority filter")
	cmd.Flags().Int64Var(&f.AssigneeID, "assignee", 0, "assignee id filter")
	cmd.Flags().StringVar(&search, "search", "", "substring match on title/description")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "tasks per page")
	return cmd
}

func taskGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				t, err := c.GetTask(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskCreateCmd() *cobra.Command {
	var title, description, status, priority, due string
	var projectID, assigneeID int64
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create task",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.InsertTask{
				Title:       title,
				Description: description,
				Status:      status,
				Priority:    priority,
			}
			if projectID != 0 {
				in.ProjectID = &projectID
			}
			if assigneeID != 0 {
				in.AssigneeID = &assigneeID
			}
			if due != "" {
				in.DueDate = &due
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				t, err := c.CreateTask(ctx, in)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&status, "status", "", "status (todo, in_progress, completed)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (high, medium, low)")
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id")
	cmd.Flags().Int64Var(&assigneeID, "assignee", 0, "assignee user id")
	cmd.Flags().StringVar(&due, "due", "", "due date (RFC 3339)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("priority")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var title, description, status, priority, due string
	var projectID, assigneeID int64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch domain.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("status") {
				patch.Status = &status
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &priority
			}
			if cmd.Flags().Changed("project") {
				patch.ProjectID = &projectID
			}
			if cmd.Flags().Changed("assignee") {
				patch.AssigneeID = &assigneeID
			}
			if cmd.Flags().Changed("due") {
				patch.DueDate = &due
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				t, err := c.UpdateTask(ctx, id, patch)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&status, "status", "", "status")
	cmd.Flags().StringVar(&priority, "priority", "", "priority")
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id")
	cmd.Flags().Int64Var(&assigneeID, "assignee", 0, "assignee user id")
	cmd.Flags().StringVar(&due, "due", "", "due date")
	return cmd
}

func taskToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between completed and todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				t, err := c.GetTask(ctx, id)
				if err != nil {
					return err
				}
				t, err = c.ToggleTask(ctx, id, !t.Completed)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				return c.DeleteTask(ctx, id)
			})
		},
	}
}

func userCmd() *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Manage users"}
	user.AddCommand(userListCmd())
	user.AddCommand(userCreateCmd())
	return user
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				items, err := c.ListUsers(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Username", "Name", "Role", "Status"})
				for _, u := range items {
					tw.AppendRow(table.Row{u.ID, u.Username, u.Name, u.Role, u.Status})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func userCreateCmd() *cobra.Command {
	var in domain.InsertUser
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				u, err := c.CreateUser(ctx, in)
				if err != nil {
					return err
				}
				return printJSONOrTable(u)
			})
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "username")
	cmd.Flags().StringVar(&in.Email, "email", "", "email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Role, "role", "", "role (default member)")
	cmd.Flags().StringVar(&in.Status, "status", "", "status (available, busy, away)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func commentCmd() *cobra.Command {
	comment := &cobra.Command{Use: "comment", Short: "Task comments"}
	comment.AddCommand(&cobra.Command{
		Use:   "list <task-id>",
		Short: "List comments on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				items, err := c.TaskComments(ctx, id)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	})
	var content string
	add := &cobra.Command{
		Use:   "add <task-id>",
		Short: "Comment on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if content == "" {
				return fmt.Errorf("--message required")
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				out, err := c.AddComment(ctx, id, content)
				if err != nil {
					return err
				}
				return printJSONOrTable(out)
			})
		},
	}
	add.Flags().StringVarP(&content, "message", "m", "", "comment text")
	comment.AddCommand(add)
	return comment
}

func activityCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Recent activity feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				items, err := c.RecentActivities(ctx, limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"When", "Type", "Description"})
				for _, a := range items {
					tw.AppendRow(table.Row{a.CreatedAt, a.Type, a.Description})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "max entries")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Dashboard stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				stats, err := c.DashboardStats(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stats)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Active Projects", "Completed Tasks", "Team Members", "Pending Tasks"})
				tw.AppendRow(table.Row{stats.ActiveProjects, stats.CompletedTasks, stats.TeamMembers, stats.PendingTasks})
				tw.Render()
				return nil
			})
		},
	}
}

func wizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Create a project step by step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *client.Client) error {
				return runWizard(ctx, cmd, c)
			})
		},
	}
}

// runWizard walks the four wizard steps on the terminal. Invalid input
// re-prompts the same step, mirroring the dashboard modal.
func runWizard(ctx context.Context, cmd *cobra.Command, c *client.Client) error {
	w := wizard.New(c.CreateProject)
	in := bufio.NewScanner(cmd.InOrStdin())
	eof := false
	prompt := func(label string) string {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
		if !in.Scan() {
			eof = true
			return ""
		}
		return strings.TrimSpace(in.Text())
	}

	for !eof {
		d := w.Draft()
		switch w.Step() {
		case wizard.StepBasics:
			d.Name = prompt("project name")
			d.Description = prompt("description (optional)")
			d.StartDate = prompt("start date (RFC 3339)")
			d.DueDate = prompt("due date (RFC 3339)")
		case wizard.StepDetails:
			d.Category = prompt("category (web, mobile, design, marketing)")
			d.Priority = prompt("priority (high, medium, low)")
		case wizard.StepTeam:
			raw := prompt("team member ids (comma separated)")
			d.TeamMembers = nil
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := strconv.ParseInt(part, 10, 64)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "skipping %q: not a number\n", part)
					continue
				}
				d.TeamMembers = append(d.TeamMembers, id)
			}
		case wizard.StepReview:
			fmt.Fprintf(cmd.OutOrStdout(), "about to create %q (%s/%s) with %d members\n",
				d.Name, d.Category, d.Priority, len(d.TeamMembers))
			if answer := prompt("submit? (y/n)"); !strings.EqualFold(answer, "y") {
				w.Cancel()
				fmt.Fprintln(cmd.OutOrStdout(), "canceled")
				return nil
			}
			w.SetDraft(d)
			p, err := w.Submit(ctx)
			if err != nil {
				// Draft survives; the user can fix the server-side
				// problem and submit again.
				fmt.Fprintf(cmd.OutOrStdout(), "submit failed: %v\n", err)
				continue
			}
			return printJSONOrTable(p)
		}
		w.SetDraft(d)
		if err := w.Next(); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", err)
		}
	}
	return fmt.Errorf("input closed before the wizard finished")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func idOrBlank(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func strOrBlank(p *string) string {
	if p == nil {
		return ""
	}
	return *p
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
