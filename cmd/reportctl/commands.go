package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xenocrypt01/smile-report-dash/internal/onboarding"
	"github.com/xenocrypt01/smile-report-dash/internal/report"
	"github.com/xenocrypt01/smile-report-dash/internal/session"
)

func newLoginCmd(app *appState) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión con email y contraseña",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if email == "" {
				email = prompt("Email: ")
			}
			if password == "" {
				password = prompt("Contraseña: ")
			}

			sess, err := app.manager.SignIn(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Sesión iniciada como %s\n", sess.Profile.Email)
			app.runTourIfFirstUse(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email de la cuenta")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (se pregunta si falta)")
	return cmd
}

func newRegisterCmd(app *appState) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Crea una cuenta nueva",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = prompt("Email: ")
			}
			if password == "" {
				password = prompt("Contraseña: ")
			}
			if err := app.manager.SignUp(cmd.Context(), email, password, name); err != nil {
				return err
			}
			fmt.Println("Cuenta creada. Revisá tu correo para confirmarla antes de iniciar sesión.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email de la cuenta")
	cmd.Flags().StringVar(&password, "password", "", "contraseña")
	cmd.Flags().StringVar(&name, "name", "", "nombre completo (opcional)")
	return cmd
}

func newSocialCmd(app *appState) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "social",
		Short: "Inicia sesión con un proveedor federado",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := app.manager.SignInWithProvider(ctx, provider)
			if err != nil {
				return err
			}
			fmt.Printf("Sesión iniciada vía %s como %s\n", provider, sess.Profile.Email)
			app.runTourIfFirstUse(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "facebook", "proveedor federado")
	return cmd
}

func newLogoutCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión local (y remota, best effort)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.manager.SignOut(cmd.Context())
			fmt.Println("Sesión cerrada.")
			return nil
		},
	}
}

func newWhoamiCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra la sesión actual",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.manager.Current()
			switch snap.State {
			case session.StateAuthenticated:
				fmt.Printf("%s (%s)\n", snap.Session.Profile.Email, snap.Session.Profile.ID)
				fmt.Printf("expira: %s\n", snap.Session.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			default:
				fmt.Println("sin sesión activa")
			}
			return nil
		},
	}
}

func newReportCmd(app *appState) *cobra.Command {
	var in report.Request

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Envía un reporte de seguridad",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app.runTourIfFirstUse(ctx)

			applyProfileDefaults(&in, app.manager.Current())
			in.Normalize()
			// Validación local completa antes de gastar la ventana.
			if fields := report.Validate(in); len(fields) > 0 {
				var sb strings.Builder
				sb.WriteString("el reporte tiene errores:")
				for _, f := range fields {
					fmt.Fprintf(&sb, "\n  - %s: %s", f.Field, f.Reason)
				}
				return fmt.Errorf("%s", sb.String())
			}

			r, err := app.api.submitReport(ctx, in)
			if err != nil {
				return err
			}
			fmt.Printf("Reporte aceptado. Comprobante %s (%s)\n",
				r.ReceiptID, r.AcceptedAt.Local().Format("15:04:05"))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.TargetPhone, "phone", "", "número a reportar (requerido)")
	cmd.Flags().StringVar(&in.TargetIdentifier, "identifier", "", "identificador adicional (opcional)")
	cmd.Flags().StringVar(&in.ReportReason, "reason", "", "motivo del reporte (requerido)")
	cmd.Flags().StringVar(&in.RecipientEmail, "recipient", "", "mail del canal de soporte (requerido)")
	cmd.Flags().StringVar(&in.SenderName, "name", "", "nombre del reportante (por defecto, el de la sesión)")
	cmd.Flags().StringVar(&in.ContactDetails, "contact", "", "contacto del reportante (por defecto, el email de la sesión)")
	return cmd
}

// applyProfileDefaults precarga el nombre y el contacto del remitente desde
// el perfil de la sesión autenticada cuando los flags vienen vacíos. Un
// valor explícito siempre gana sobre el perfil.
func applyProfileDefaults(in *report.Request, snap session.Snapshot) {
	if snap.State != session.StateAuthenticated {
		return
	}
	if in.SenderName == "" {
		in.SenderName = snap.Session.Profile.FullName
	}
	if in.ContactDetails == "" {
		in.ContactDetails = snap.Session.Profile.Email
	}
}

func newTourCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "tour",
		Short: "Muestra el tour de bienvenida (solo si nunca se vio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow := onboarding.New(app.store, nil)
			if !flow.Begin(cmd.Context()) {
				fmt.Println("El tour ya fue visto.")
				return nil
			}
			for {
				step, pos, total := flow.Current()
				fmt.Printf("\n[%d/%d] %s\n%s\n", pos, total, step.Title, step.Body)
				if !flow.Next(cmd.Context()) {
					return nil
				}
			}
		},
	}
}

func prompt(label string) string {
	fmt.Print(label)
	sc := bufio.NewScanner(os.Stdin)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text())
	}
	return ""
}
