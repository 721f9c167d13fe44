package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pw2712gz/go-auth-client/api"
	"github.com/pw2712gz/go-auth-client/guards"
	"github.com/pw2712gz/go-auth-client/internal/config"
	"github.com/pw2712gz/go-auth-client/sessions"
	"github.com/pw2712gz/go-auth-client/storage"
	"github.com/pw2712gz/go-auth-client/token"
	"github.com/pw2712gz/go-auth-client/transport"
)

const usage = `usage: authctl <command> [flags]

commands:
  login            authenticate and store the token pair
  logout           invalidate the refresh token and clear the session
  status           restore the session and show its state
  me               show the current user's profile
  register         create a new account
  forgot-password  request a password reset email
  reset-password   set a new password using a reset token
  health           check the API health endpoint
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 {
		fmt.Print(usage)
		return errors.New("missing command")
	}

	_ = godotenv.Load()
	cfg := config.New()
	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	command, commandArgs := args[0], args[1:]
	if command == "login" || command == "register" {
		displayAppname(cfg.GetAppName())
	}

	switch command {
	case "login":
		return app.login(ctx, commandArgs)
	case "logout":
		return app.logout(ctx)
	case "status":
		return app.status(ctx)
	case "me":
		return app.me(ctx)
	case "register":
		return app.register(ctx, commandArgs)
	case "forgot-password":
		return app.forgotPassword(ctx, commandArgs)
	case "reset-password":
		return app.resetPassword(ctx, commandArgs)
	case "health":
		return app.health(ctx)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// app wires the SDK together: a plain client for the public auth
// endpoints and an intercepted client for everything that needs a bearer
// token.
type app struct {
	store      *sessions.Store
	authClient *api.Client
	meClient   *api.Client
	log        zerolog.Logger
}

func newApp(cfg config.Config, logger zerolog.Logger) (*app, error) {
	repo, err := storage.NewFileRepo(cfg.GetCredentialsFile())
	if err != nil {
		return nil, err
	}

	store, err := sessions.NewStore(repo, sessions.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	authClient := api.NewClient(cfg.GetAPIBaseURL(),
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}),
	)

	authTransport, err := transport.NewAuthTransport(store, authClient,
		transport.WithRefreshWindow(cfg.GetRefreshWindow()),
		transport.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	meClient := api.NewClient(cfg.GetAPIBaseURL(),
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{
			Transport: authTransport,
			Timeout:   cfg.GetHTTPTimeout(),
		}),
	)

	return &app{
		store:      store,
		authClient: authClient,
		meClient:   meClient,
		log:        logger,
	}, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	res, err := a.authClient.Login(ctx, api.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if err := a.store.Login(res.AuthenticationToken, res.RefreshToken); err != nil {
		return err
	}

	// Fetch the profile right after login; a failure here leaves the
	// token pair in place and the profile unset.
	user, err := a.meClient.CurrentUser(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to fetch current user after login")
		fmt.Printf("Logged in as %s\n", res.Username)
		return nil
	}
	a.store.SetCurrentUser(user)

	fmt.Printf("Logged in as %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	refreshToken, ok := a.store.RefreshToken()
	if ok {
		accessToken, _ := a.store.AccessToken()
		_, err := a.authClient.Logout(ctx, api.RefreshTokenRequest{
			Email:        token.Subject(accessToken),
			RefreshToken: refreshToken,
		})
		if err != nil {
			// Clear the local session regardless; the refresh token
			// expires server-side on its own.
			a.log.Warn().Err(err).Msg("server logout failed")
		}
	}

	if err := a.store.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (a *app) status(ctx context.Context) error {
	initializer, err := sessions.NewInitializer(a.store, a.meClient, sessions.WithInitLogger(a.log))
	if err != nil {
		return err
	}
	if err := initializer.Run(ctx); err != nil {
		return err
	}

	if !a.store.IsLoggedIn() {
		fmt.Println("Not logged in")
	} else if user := a.store.CurrentUser(); user != nil {
		fmt.Printf("Logged in as %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	}

	for _, route := range []struct {
		path     string
		decision guards.Decision
	}{
		{guards.DashboardRoute, guards.Protected(a.store)},
		{guards.LoginRoute, guards.PublicOnly(a.store)},
	} {
		if route.decision.Allowed {
			fmt.Printf("%-12s allowed\n", route.path)
		} else {
			fmt.Printf("%-12s redirects to %s\n", route.path, route.decision.RedirectTo)
		}
	}
	return nil
}

func (a *app) me(ctx context.Context) error {
	user, err := a.meClient.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s %s <%s>\n", user.ID, user.FirstName, user.LastName, user.Email)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("register", flag.ContinueOnError)
	firstName := flags.String("first-name", "", "first name")
	lastName := flags.String("last-name", "", "last name")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *firstName == "" || *lastName == "" || *email == "" || *password == "" {
		return errors.New("register requires -first-name, -last-name, -email and -password")
	}

	res, err := a.authClient.Register(ctx, api.RegisterRequest{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
	})
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func (a *app) forgotPassword(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	email := flags.String("email", "", "account email")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("forgot-password requires -email")
	}

	res, err := a.authClient.ForgotPassword(ctx, api.ForgotPasswordRequest{Email: *email})
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func (a *app) resetPassword(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	resetToken := flags.String("token", "", "reset token from the email")
	newPassword := flags.String("new-password", "", "new password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *resetToken == "" || *newPassword == "" {
		return errors.New("reset-password requires -token and -new-password")
	}

	res, err := a.authClient.ResetPassword(ctx, api.ResetPasswordRequest{
		Token:       *resetToken,
		NewPassword: *newPassword,
	})
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func (a *app) health(ctx context.Context) error {
	res, err := a.authClient.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
