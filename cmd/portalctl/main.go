package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chargecars-portal/internal/config"
	"chargecars-portal/internal/db"
	"chargecars-portal/internal/domain"
	"chargecars-portal/internal/service"
	"chargecars-portal/internal/status"
	"chargecars-portal/internal/store"
	"chargecars-portal/internal/xano"
)

// cliNamespace es el namespace del store para la sesion local.
const cliNamespace = "cli"

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	conn    *sql.DB
	client  *xano.Client
	session *service.SessionManager

	dbPath  string
	verbose bool
}

func main() {
	a := &app{}
	if err := a.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portalctl",
		Short:        "ChargeCars portal from the command line",
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite file holding the local session (default SQLITE_PATH)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log diagnostics to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.signupCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.checkCmd(),
		a.ordersCmd(),
		a.statsCmd(),
		a.statusCmd(),
	)
	return root
}

func (a *app) setup() error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.verbose {
		a.logger, _ = zap.NewDevelopment()
	} else {
		a.logger = zap.NewNop()
	}

	path := a.dbPath
	if path == "" {
		path = cfg.SQLitePath
	}
	conn, err := db.OpenSQLite(path)
	if err != nil {
		return err
	}
	a.conn = conn

	a.client = xano.NewClient(cfg.XanoBaseURL, cfg.XanoAuthGroup, cfg.XanoAPIGroup, cfg.XanoTimeout(), a.logger)
	st := store.NewSQLiteStore(conn).Scope(cliNamespace)
	a.session = service.NewSessionManager(a.logger, a.client, st)
	return nil
}

func (a *app) close() {
	if a.conn != nil {
		_ = a.conn.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// restore recupera la sesion guardada y falla si no hay una valida.
func (a *app) restore(ctx context.Context) error {
	a.session.Init(ctx)
	if !a.session.IsAuthenticated() {
		return errors.New("not logged in: run portalctl login")
	}
	return nil
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				pw, err := promptLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				password = pw
			}
			sess, err := a.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingelogd als %s (%s)\n", service.DisplayName(sess.Profile), service.RoleLabel(sess.Profile))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) signupCmd() *cobra.Command {
	var input domain.SignupInput
	var signupType string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store the session locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.Password == "" {
				pw, err := promptLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				input.Password = pw
			}
			input.SignupType = domain.SignupType(signupType)
			sess, err := a.session.Signup(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account aangemaakt voor %s\n", service.DisplayName(sess.Profile))
			return nil
		},
	}
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password (prompted when empty)")
	cmd.Flags().StringVar(&signupType, "type", string(domain.SignupCustomer), "customer, internal, external or technician")
	cmd.Flags().StringVar(&input.OrganizationID, "organization", "", "organization id")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Uitgelogd")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd.Context()); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), service.NewProfileView(a.session.Snapshot().Profile))
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the stored session against the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.session.CheckSession(cmd.Context()) {
				return errors.New("session invalid or expired")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func (a *app) ordersCmd() *cobra.Command {
	var filters domain.OrderFilters
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders with their status badge",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.restore(ctx); err != nil {
				return err
			}
			orders, page, err := a.client.ListOrders(ctx, a.session.Token(), filters)
			if err != nil {
				return a.apiError(ctx, err)
			}
			decorated := service.NewDashboardService(a.logger, a.client, status.Default()).DecorateOrders(orders)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"orders": decorated, "pagination": page})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ORDER\tKLANT\tSTATUS\tKLEUR\tBEDRAG")
			for _, o := range decorated {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
					firstNonEmpty(o.OrderNumber, o.ID.String()),
					o.CustomerName,
					firstNonEmpty(o.Badge.Label, string(o.StatusKey())),
					o.Badge.Color,
					o.Amount,
				)
			}
			fmt.Fprintf(tw, "\npagina %d/%d (%d totaal)\n", page.CurrentPage, page.TotalPages, page.TotalItems)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filters.Search, "search", "", "search text")
	cmd.Flags().StringVar(&filters.Status, "status", "", "status filter")
	cmd.Flags().StringVar(&filters.OrderType, "type", "", "order type filter")
	cmd.Flags().IntVar(&filters.Page, "page", 1, "page")
	cmd.Flags().IntVar(&filters.PerPage, "per-page", 20, "items per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.restore(ctx); err != nil {
				return err
			}
			stats, err := service.NewDashboardService(a.logger, a.client, nil).Stats(ctx, a.session.Token())
			if err != nil {
				return a.apiError(ctx, err)
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <code>",
		Short: "Resolve a status code to its badge",
		Args:  cobra.ExactArgs(1),
		// no necesita sesion ni base de datos
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), status.BadgeFor(domain.StatusCode(args[0])))
		},
	}
}

// apiError cierra la sesion local si la API rechaza el token.
func (a *app) apiError(ctx context.Context, err error) error {
	if xano.IsUnauthorized(err) {
		a.session.Logout(ctx)
		return errors.New("session expired: run portalctl login")
	}
	return errors.New(xano.UserMessage(err))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func promptLine(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
