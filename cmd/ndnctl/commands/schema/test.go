package schema

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndn-lite/ndnlite-go/internal/ndn"
	"github.com/ndn-lite/ndnlite-go/internal/trustschema"
)

var testCmd = &cobra.Command{
	Use:   "test <data-pattern> <key-pattern> <data-name> <key-name>",
	Short: "Check a name pair against a trust schema rule",
	Long: `Build a single rule from data-pattern and key-pattern, then check
whether key-name is authorized to sign data named data-name under it.

Examples:
  ndnctl schema test '(<a>)<data>' '\0<KEY><><>' /a/data /a/KEY/op/self`,
	Args: cobra.ExactArgs(4),
	RunE: runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	dataPattern, keyPattern, dataNameURI, keyNameURI := args[0], args[1], args[2], args[3]

	rule, err := trustschema.RuleFromStrings(dataPattern, keyPattern)
	if err != nil {
		return fmt.Errorf("parse rule: %w", err)
	}

	dataName, err := ndn.ParseURI(dataNameURI)
	if err != nil {
		return fmt.Errorf("parse data name: %w", err)
	}
	keyName, err := ndn.ParseURI(keyNameURI)
	if err != nil {
		return fmt.Errorf("parse key name: %w", err)
	}

	store := trustschema.NewRuleStore(0)
	err = trustschema.VerifyNamePair(rule, dataName, keyName, store)
	switch {
	case err == nil:
		fmt.Printf("authorized: %s may sign %s\n", keyNameURI, dataNameURI)
	case errors.Is(err, trustschema.ErrRuleReferencingNotImplemented):
		fmt.Println("rule references another rule; referencing is not evaluated")
	default:
		fmt.Printf("not authorized: %v\n", err)
	}
	return nil
}
