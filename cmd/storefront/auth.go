package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maison/storefront/internal/infrastructure/backend"
	"github.com/maison/storefront/internal/infrastructure/identity"
)

func newLoginCommand(a *app) *cobra.Command {
	var (
		email     string
		password  string
		oauthURL  bool
		oauthCode string
		phone     string
		captcha   string
		smsCode   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email/password, an OAuth code, or a phone OTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			switch {
			case oauthURL:
				return a.printOAuthURL(cmd)
			case oauthCode != "":
				return a.loginOAuth(cmd, oauthCode)
			case phone != "":
				return a.loginPhone(cmd, phone, captcha, smsCode)
			case email != "":
				if err := a.sessions.Login(ctx, email, password); err != nil {
					return fmt.Errorf("login failed: %s", backend.UserMessage(err))
				}
			default:
				return fmt.Errorf("provide --email, --oauth-code, or --phone")
			}

			user, _ := a.sessions.User()
			cmd.Printf("Signed in as %s (%s)\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&oauthURL, "oauth-url", false, "print the provider authorization URL and exit")
	cmd.Flags().StringVar(&oauthCode, "oauth-code", "", "authorization code from the OAuth provider")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number for SMS sign-in")
	cmd.Flags().StringVar(&captcha, "captcha-token", "", "solved CAPTCHA token for SMS sign-in")
	cmd.Flags().StringVar(&smsCode, "sms-code", "", "SMS code received on the phone")
	return cmd
}

func (a *app) oauthAdapter() (*identity.OAuthAdapter, error) {
	cfg := a.config.Identity
	return identity.NewOAuthAdapter(&identity.OAuthConfig{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		AuthURL:      cfg.OAuthAuthURL,
		TokenURL:     cfg.OAuthTokenURL,
		RedirectURL:  cfg.OAuthRedirectURL,
		Logger:       a.logger.Named("identity"),
	})
}

// printOAuthURL prints the provider URL the user visits to obtain the
// authorization code passed back via --oauth-code
func (a *app) printOAuthURL(cmd *cobra.Command) error {
	oauth, err := a.oauthAdapter()
	if err != nil {
		return err
	}
	cmd.Println(oauth.AuthURL(uuid.NewString()))
	return nil
}

// loginOAuth exchanges the authorization code with the provider, then
// forwards the provider token to the backend
func (a *app) loginOAuth(cmd *cobra.Command, code string) error {
	ctx := cmd.Context()

	oauth, err := a.oauthAdapter()
	if err != nil {
		return err
	}

	providerToken, err := oauth.Exchange(ctx, code)
	if err != nil {
		return err
	}

	resp, err := a.api.OAuthLogin(ctx, providerToken)
	if err != nil {
		return fmt.Errorf("login failed: %s", backend.UserMessage(err))
	}
	if err := a.sessions.Activate(ctx, resp); err != nil {
		return err
	}

	cmd.Printf("Signed in as %s (%s)\n", resp.User.Name, resp.User.Email)
	return nil
}

// loginPhone drives the SMS OTP flow: start a verification with the CAPTCHA
// token, confirm the SMS code, then forward the provider ID token to the
// backend
func (a *app) loginPhone(cmd *cobra.Command, phone, captchaToken, smsCode string) error {
	ctx := cmd.Context()
	cfg := a.config.Identity

	adapter, err := identity.NewPhoneAdapter(&identity.PhoneConfig{
		BaseURL: cfg.PhoneBaseURL,
		APIKey:  cfg.PhoneAPIKey,
		Timeout: cfg.PhoneTimeout,
		Logger:  a.logger.Named("identity"),
	})
	if err != nil {
		return err
	}

	challenge, err := adapter.StartVerification(ctx, phone, captchaToken)
	if err != nil {
		return err
	}

	if smsCode == "" {
		code, readErr := readLine(cmd, "SMS code: ")
		if readErr != nil {
			return readErr
		}
		smsCode = code
	}

	idToken, err := adapter.ConfirmCode(ctx, challenge, smsCode)
	if err != nil {
		return err
	}

	resp, err := a.api.PhoneLogin(ctx, idToken)
	if err != nil {
		return fmt.Errorf("login failed: %s", backend.UserMessage(err))
	}
	if err := a.sessions.Activate(ctx, resp); err != nil {
		return err
	}

	cmd.Printf("Signed in as %s\n", resp.User.Name)
	return nil
}

func newRegisterCommand(a *app) *cobra.Command {
	var req backend.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Name == "" || req.Email == "" || req.Password == "" {
				return fmt.Errorf("--name, --email and --password are required")
			}
			if err := a.sessions.Register(cmd.Context(), req); err != nil {
				return fmt.Errorf("registration failed: %s", backend.UserMessage(err))
			}
			cmd.Printf("Welcome, %s\n", req.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number (optional)")
	return cmd
}

func newPasswordResetCommand(a *app) *cobra.Command {
	var (
		email       string
		resetToken  string
		newPassword string
	)

	cmd := &cobra.Command{
		Use:   "password-reset",
		Short: "Request a password reset email, or complete one with the emailed token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if resetToken != "" {
				if newPassword == "" {
					return fmt.Errorf("--new-password is required with --token")
				}
				if err := a.api.ResetPassword(ctx, resetToken, newPassword); err != nil {
					return fmt.Errorf("password reset failed: %s", backend.UserMessage(err))
				}
				cmd.Println("Password updated, sign in with the new password")
				return nil
			}

			if email == "" {
				return fmt.Errorf("provide --email to request a reset, or --token to complete one")
			}
			if err := a.api.RequestPasswordReset(ctx, email); err != nil {
				return fmt.Errorf("password reset failed: %s", backend.UserMessage(err))
			}
			cmd.Printf("Reset email sent to %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email to send the reset link to")
	cmd.Flags().StringVar(&resetToken, "token", "", "reset token from the email")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "new account password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Logout(cmd.Context())
			cmd.Println("Signed out")
			return nil
		},
	}
}

func newProfileCommand(a *app) *cobra.Command {
	var (
		name  string
		phone string
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSignIn(); err != nil {
				return err
			}

			if name != "" || phone != "" {
				edited, _ := a.sessions.User()
				if name != "" {
					edited.Name = name
				}
				if phone != "" {
					edited.Phone = phone
				}
				if err := a.sessions.UpdateProfile(cmd.Context(), edited); err != nil {
					return fmt.Errorf("profile update failed: %s", backend.UserMessage(err))
				}
			}

			user, _ := a.sessions.User()
			cmd.Printf("%s <%s>\n", user.Name, user.Email)
			if user.Phone != "" {
				cmd.Printf("Phone: %s\n", user.Phone)
			}
			cmd.Printf("Role: %s\n", user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	return cmd
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := a.sessions.User()
			if !ok {
				cmd.Println("Not signed in")
				return nil
			}
			cmd.Printf("%s <%s> role=%s\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
}

// readLine prompts on the command's output and reads one line from its input
func readLine(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}
