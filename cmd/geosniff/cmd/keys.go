package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spatialworks/geosniff/internal/core/auth"
	"github.com/spatialworks/geosniff/internal/core/config"
	"github.com/spatialworks/geosniff/internal/core/db"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys for the detection service",
}

var keysNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Mint a new API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysNew,
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <api-key-id>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysRevoke,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysNewCmd)
	keysCmd.AddCommand(keysRevokeCmd)
}

func runKeysNew(cmd *cobra.Command, args []string) error {
	// New keys are always minted under the primary secret; numbered
	// rotation secrets only verify existing keys.
	raw := os.Getenv("GS_HMAC_SECRET")
	if raw == "" {
		return fmt.Errorf("GS_HMAC_SECRET not set")
	}
	secretID, secret, err := config.ParseHMACSecretWithID(raw)
	if err != nil {
		return fmt.Errorf("GS_HMAC_SECRET: %w", err)
	}

	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	plaintext, err := auth.GenerateAPIKey(secretID)
	if err != nil {
		return err
	}
	hash := hex.EncodeToString(auth.ComputeHMAC(secret, plaintext))

	keyID := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := queries.Exec("insert-api-key", keyID, args[0], hash, createdAt); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id    %s\n", keyID)
	fmt.Fprintf(out, "name  %s\n", args[0])
	color.New(color.FgGreen, color.Bold).Fprintf(out, "key   %s\n", plaintext)
	color.New(color.FgYellow).Fprintln(out, "store the key now; only its hash is kept")
	return nil
}

func runKeysRevoke(cmd *cobra.Command, args []string) error {
	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	revokedAt := time.Now().UTC().Format(time.RFC3339)
	res, err := queries.Exec("revoke-api-key", revokedAt, args[0])
	if err != nil {
		return fmt.Errorf("failed to revoke key: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no key with id %s", args[0])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
	return nil
}
