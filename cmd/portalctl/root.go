package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hackathon-portal/internal/client"
)

var (
	apiURL      string
	sessionPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "portalctl",
	Short:         "Command line client for the hackathon portal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("PORTAL_API_URL", "http://localhost:8080"), "portal API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "file where the session tokens are stored")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".portalctl-session.json"
	}
	return filepath.Join(home, ".portalctl", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newAPI arma el cliente; un refresh fallido avisa por stderr que hay que volver a entrar.
func newAPI(cmd *cobra.Command) *client.API {
	store := client.NewFileTokenStore(sessionPath)
	return client.New(apiURL, store, func() {
		fmt.Fprintln(cmd.ErrOrStderr(), "session expired, run `portalctl signin`")
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe convierte errores del API en mensajes cortos para la terminal.
func describe(err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		return errors.New("not signed in")
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Error())
	}
	return err
}
