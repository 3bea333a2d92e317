// Command regeve-register is the terminal front-end for the Regeve admin
// registration flow: it collects the profile fields, runs the email OTP
// verification, submits the account and stores the returned session for
// the dashboard screens.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prasanthpraju/Regeve-sub001/internal/accountapi"
	"github.com/prasanthpraju/Regeve-sub001/internal/config"
	"github.com/prasanthpraju/Regeve-sub001/internal/database"
	"github.com/prasanthpraju/Regeve-sub001/internal/domain"
	"github.com/prasanthpraju/Regeve-sub001/internal/modules/registration"
	"github.com/prasanthpraju/Regeve-sub001/internal/pkg/sessiontoken"
	"github.com/prasanthpraju/Regeve-sub001/internal/repository"
)

var fieldLabels = map[string]string{
	"companyName":     "Company name",
	"fullName":        "Full name",
	"email":           "Email",
	"dateOfBirth":     "Date of birth (YYYY-MM-DD)",
	"gender":          "Gender (male/female/other)",
	"occupation":      "Occupation",
	"phoneNumber":     "Phone number",
	"idCardNumber":    "ID card number",
	"password":        "Password",
	"confirmPassword": "Confirm password",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "regeve-register",
		Short:         "Regeve election admin registration client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(registerCmd(), sessionCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register a new election admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger()

			client := accountapi.New(cfg.APIBaseURL,
				accountapi.WithToken(cfg.APIToken),
				accountapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
				accountapi.WithLogger(logger),
			)

			db, err := database.Connect(cfg.SessionDBPath)
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			store, err := repository.NewSessionRepository(db)
			if err != nil {
				return fmt.Errorf("migrate session store: %w", err)
			}

			flow := registration.NewFlow(client, store, registration.WithLogger(logger))
			return runInteractive(cmd.Context(), flow, cfg.SuccessDisplay)
		},
	}
}

func runInteractive(ctx context.Context, flow *registration.Flow, successDisplay time.Duration) error {
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("Regeve admin registration")
	fmt.Println()

	for _, field := range domain.DraftFields {
		if err := promptField(ctx, in, flow, field); err != nil {
			return err
		}
		if field == "email" {
			if err := verifyEmail(ctx, in, flow); err != nil {
				return err
			}
		}
	}

	return submit(ctx, in, flow, successDisplay)
}

// promptField reads one field until it validates.
func promptField(ctx context.Context, in *bufio.Scanner, flow *registration.Flow, field string) error {
	for {
		fmt.Printf("%s: ", fieldLabels[field])
		value, err := readLine(ctx, in)
		if err != nil {
			return err
		}
		flow.SetField(field, value)
		flow.Touch(field)

		if msg := flow.State().Errors[field]; msg != "" {
			fmt.Println("  !", msg)
			continue
		}
		return nil
	}
}

// verifyEmail runs the OTP sub-flow until the entered email is verified.
// Changing the email restarts it.
func verifyEmail(ctx context.Context, in *bufio.Scanner, flow *registration.Flow) error {
	for {
		err := flow.RequestCode(ctx)
		if err == nil {
			break
		}
		fmt.Println("  !", flow.State().Otp.StatusMessage)
		if errors.Is(err, registration.ErrInvalidEmail) {
			if err := promptField(ctx, in, flow, "email"); err != nil {
				return err
			}
			continue
		}
		// Server or network trouble; let the user retry the send.
		fmt.Print("Retry sending the code? [y/N]: ")
		answer, readErr := readLine(ctx, in)
		if readErr != nil {
			return readErr
		}
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return fmt.Errorf("registration abandoned: email not verified")
		}
	}
	fmt.Println("  ", flow.State().Otp.StatusMessage)

	for flow.State().Otp.Phase != domain.OtpVerified {
		fmt.Print("Verification code (or 'resend'): ")
		code, err := readLine(ctx, in)
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(code), "resend") {
			if err := flow.RequestCode(ctx); err != nil && !errors.Is(err, registration.ErrAlreadyVerified) {
				fmt.Println("  !", flow.State().Otp.StatusMessage)
				continue
			}
			fmt.Println("  ", flow.State().Otp.StatusMessage)
			continue
		}
		if err := flow.SubmitCode(ctx, code); err != nil {
			if msg := flow.State().Otp.StatusMessage; msg != "" {
				fmt.Println("  !", msg)
			}
			continue
		}
	}

	fmt.Println("  ", flow.State().Otp.StatusMessage)
	return nil
}

func submit(ctx context.Context, in *bufio.Scanner, flow *registration.Flow, successDisplay time.Duration) error {
	for {
		err := flow.Submit(ctx)
		if err == nil {
			fmt.Println()
			fmt.Println("Registration submitted. Your account is awaiting admin approval.")
			select {
			case <-time.After(successDisplay):
			case <-ctx.Done():
			}
			flow.AcknowledgeSubmitted()
			return nil
		}

		state := flow.State()
		if errors.Is(err, registration.ErrInvalidDraft) {
			for _, field := range domain.DraftFields {
				if msg := state.Errors[field]; msg != "" {
					fmt.Printf("  ! %s: %s\n", fieldLabels[field], msg)
				}
			}
			return fmt.Errorf("registration aborted: draft invalid")
		}

		fmt.Println("  !", state.SubmitMessage)
		fmt.Print("Retry submission? [y/N]: ")
		answer, readErr := readLine(ctx, in)
		if readErr != nil {
			return readErr
		}
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			flow.DismissError()
			return err
		}
	}
}

func sessionCmd() *cobra.Command {
	session := &cobra.Command{
		Use:   "session",
		Short: "Inspect the locally stored session",
	}

	session.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored session token and profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			token, ok, err := store.Get(ctx, registration.SessionTokenKey)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("no session stored")
				return nil
			}

			claims, err := sessiontoken.Decode(token)
			if err != nil {
				fmt.Println("session token: (undecodable)")
			} else if claims.Expired(time.Now()) {
				fmt.Println("session token: expired")
			} else if claims.ExpiresAt != nil {
				fmt.Println("session token: valid until", claims.ExpiresAt.Time.Format(time.RFC3339))
			} else {
				fmt.Println("session token: valid")
			}

			profile, ok, err := store.Get(ctx, registration.SessionProfileKey)
			if err != nil {
				return err
			}
			if ok {
				var pretty json.RawMessage = []byte(profile)
				out, err := json.MarshalIndent(pretty, "", "  ")
				if err == nil {
					fmt.Println(string(out))
				}
			}
			return nil
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := store.Delete(ctx, registration.SessionTokenKey); err != nil {
				return err
			}
			if err := store.Delete(ctx, registration.SessionProfileKey); err != nil {
				return err
			}
			fmt.Println("session cleared")
			return nil
		},
	})

	return session
}

func openStore() (*repository.SessionRepository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return repository.NewSessionRepository(db)
}

func readLine(ctx context.Context, in *bufio.Scanner) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input closed")
	}
	return in.Text(), nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if strings.EqualFold(os.Getenv("REGEVE_DEBUG"), "true") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
