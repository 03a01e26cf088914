// reportctl es la CLI del servicio de reportes: maneja la sesión local,
// valida el formulario antes de enviarlo y muestra el tour de primer uso.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newRootCmd() *cobra.Command {
	app := &appState{
		baseURL: envOr("REPORT_API_URL", "http://localhost:8080"),
	}

	root := &cobra.Command{
		Use:           "reportctl",
		Short:         "Cliente del servicio de reportes de seguridad",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&app.baseURL, "api-url", app.baseURL,
		"URL base del servicio (env REPORT_API_URL)")
	root.PersistentFlags().StringVar(&app.stateDir, "state-dir", "",
		"directorio de estado local (default: ~/.config/reportctl)")

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newSocialCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newReportCmd(app),
		newTourCmd(app),
	)
	return root
}
