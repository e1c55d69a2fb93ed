package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spatialworks/geosniff/internal/catalog"
	"github.com/spatialworks/geosniff/internal/core/config"
	"github.com/spatialworks/geosniff/internal/detect"
	"github.com/spatialworks/geosniff/internal/resource"
	"github.com/spatialworks/geosniff/internal/rules"
	"github.com/spatialworks/geosniff/internal/types"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect <uri-or-path>",
	Short: "Detect the type of a remote endpoint, file, or directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

var (
	detectTypes    []string
	detectExpand   bool
	detectJSON     bool
	detectUsername string
	detectPassword string
)

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringArrayVar(&detectTypes, "type", nil, "restrict detection to this type id (repeatable)")
	detectCmd.Flags().BoolVar(&detectExpand, "expand-subtypes", false, "widen each --type to its whole subtype branch")
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "print the result as JSON")
	detectCmd.Flags().StringVar(&detectUsername, "username", "", "basic-auth username for remote endpoints")
	detectCmd.Flags().StringVar(&detectPassword, "password", "", "basic-auth password for remote endpoints")
}

func runDetect(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cat, err := buildCatalog(cfg)
	if err != nil {
		return err
	}
	detector, err := buildDetector(cat, cfg, logger)
	if err != nil {
		return err
	}

	res := targetResource(cfg, args[0])
	expected, err := cliExpectedTypes(cat, detectTypes, detectExpand)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var det *rules.Detection
	if len(expected) > 0 {
		det, err = detector.DetectAmong(ctx, res, expected)
	} else {
		det, err = detector.Detect(ctx, res)
	}

	var incompatible *detect.IncompatibleTypeError
	switch {
	case errors.As(err, &incompatible):
		printDetection(cmd.OutOrStdout(), incompatible.Detected, detectJSON)
		return fmt.Errorf("detected type %q is not among the expected types", incompatible.Detected.Record.Label)
	case errors.Is(err, types.ErrNotDetected):
		return fmt.Errorf("no expected type matched %s", args[0])
	case err != nil:
		return err
	}

	printDetection(cmd.OutOrStdout(), det, detectJSON)
	return nil
}

// targetResource maps the command argument onto a resource. Anything that
// parses as an http(s) URL is remote; everything else is a filesystem path.
func targetResource(cfg *config.ServiceConfig, target string) resource.Resource {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return resource.NewLocal(target)
	}

	opts := []resource.RemoteOption{
		resource.WithClient(&http.Client{Timeout: cfg.Detection.FetchTimeout}),
		resource.WithRetries(uint64(cfg.Detection.FetchRetries)),
	}
	if detectUsername != "" {
		opts = append(opts, resource.WithCredentials(detectUsername, detectPassword))
	}
	return resource.NewCached(resource.NewRemote(u, opts...))
}

// cliExpectedTypes resolves the --type flags into a restriction set.
func cliExpectedTypes(cat *catalog.Catalog, raw []string, expand bool) ([]types.TypeID, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	seen := make(map[types.TypeID]struct{})
	var out []types.TypeID
	add := func(id types.TypeID) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, r := range raw {
		id := types.TypeID(r)
		if _, ok := cat.Get(id); !ok {
			return nil, fmt.Errorf("unknown type %s (run 'geosniff types' for the catalog)", r)
		}
		if !expand {
			add(id)
			continue
		}
		family, err := cat.Family(id)
		if err != nil {
			return nil, err
		}
		for _, rec := range family {
			add(rec.ID)
		}
	}
	return out, nil
}

type detectionOutput struct {
	TypeID               types.TypeID `json:"type_id"`
	TypeLabel            string       `json:"type_label"`
	Priority             int          `json:"priority"`
	Fallback             bool         `json:"fallback"`
	ExtractedLabel       string       `json:"extracted_label,omitempty"`
	ExtractedDescription string       `json:"extracted_description,omitempty"`
	URI                  string       `json:"uri"`
}

func printDetection(w io.Writer, det *rules.Detection, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(detectionOutput{
			TypeID:               det.Record.ID,
			TypeLabel:            det.Record.Label,
			Priority:             det.Priority,
			Fallback:             !det.Record.Detectable(),
			ExtractedLabel:       det.ExtractedLabel,
			ExtractedDescription: det.ExtractedDescription,
			URI:                  det.Resource.URI().String(),
		})
		return
	}

	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)

	green.Fprintln(w, det.Record.Label)
	gray.Fprintf(w, "  id        %s\n", det.Record.ID)
	gray.Fprintf(w, "  priority  %d\n", det.Priority)
	if det.ExtractedLabel != "" {
		fmt.Fprintf(w, "  title     %s\n", det.ExtractedLabel)
	}
	if det.ExtractedDescription != "" {
		fmt.Fprintf(w, "  abstract  %s\n", det.ExtractedDescription)
	}
	if !det.Record.Detectable() {
		yellow.Fprintln(w, "  fallback  content did not match any specific type")
	}
}
