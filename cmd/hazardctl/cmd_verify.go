package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/hazard-verify-service/internal/config"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

type verifyFlags struct {
	history     string
	reportType  string
	pincode     string
	location    string
	description string
	policy      string
	policyFile  string
	classifier  classifierFlags
}

func newVerifyCmd() *cobra.Command {
	var flags verifyFlags

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify one report against a history file and print the fused result",
		Example: `  hazardctl verify --history data/reports.json \
    --type "oil spill" --pincode 400001 --description "oil slick near the jetty"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.history, "history", "data/reports.json", "report history file")
	f.StringVar(&flags.reportType, "type", "", "hazard type, e.g. \"flood\"")
	f.StringVar(&flags.pincode, "pincode", "", "postal code of the report")
	f.StringVar(&flags.location, "location", "", "free-text location, used when no pincode is given")
	f.StringVar(&flags.description, "description", "", "report description (required)")
	f.StringVar(&flags.policy, "policy", domain.PolicyCorroboration, "fusion policy name")
	f.StringVar(&flags.policyFile, "policy-file", "", "YAML file of additional fusion policies")
	flags.classifier.register(cmd)

	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func runVerify(cmd *cobra.Command, flags verifyFlags) error {
	if strings.TrimSpace(flags.description) == "" {
		return errors.New("description is required")
	}

	policy, err := config.LoadFusionPolicy(flags.policy, flags.policyFile)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	v := newLocalVerifier(cmd, flags.history, policy, flags.classifier)
	result := v.Verify(cmd.Context(), domain.Report{
		Type:        flags.reportType,
		Pincode:     flags.pincode,
		Location:    flags.location,
		Description: flags.description,
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
