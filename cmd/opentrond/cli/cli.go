// Package cli builds the opentrond command tree: submitting the two
// built-in contracts and inspecting account state.
package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/manager"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/statedb"
	"github.com/spf13/cobra"
)

// NewCLI builds the root command, wiring every subcommand to m.
func NewCLI(m *manager.Manager) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "opentrond",
		Short: "opentrond runs the Tron-compatible account actuator core.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.AddCommand(
		newUpdateAccountCmd(m),
		newUpdatePermissionCmd(m),
		newShowAccountCmd(m),
		newCreditBlackholeCmd(m),
	)
	return rootCmd
}

func newUpdateAccountCmd(m *manager.Manager) *cobra.Command {
	var ownerHex, name string
	cmd := &cobra.Command{
		Use:   "update-account",
		Short: "Submit an AccountUpdateContract (rename).",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := decodeAddress(ownerHex)
			if err != nil {
				return err
			}
			ctx, err := m.ProcessContract(&model.AccountUpdateContract{
				OwnerAddress: owner.Bytes(),
				AccountName:  []byte(name),
			})
			if err != nil {
				return fmt.Errorf("contract rejected (request %s): %w", ctx.ID, err)
			}
			fmt.Printf("ok: request %s, result %s\n", ctx.ID, ctx.Result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerHex, "owner", "", "owner address, hex-encoded")
	cmd.Flags().StringVar(&name, "name", "", "new account name")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUpdatePermissionCmd(m *manager.Manager) *cobra.Command {
	var ownerHex, keyHex string
	var threshold int64
	cmd := &cobra.Command{
		Use:   "update-permission",
		Short: "Submit an AccountPermissionUpdateContract with a single-key owner and active permission.",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := decodeAddress(ownerHex)
			if err != nil {
				return err
			}
			key, err := decodeAddress(keyHex)
			if err != nil {
				return err
			}
			contract := &model.AccountPermissionUpdateContract{
				OwnerAddress: owner.Bytes(),
				Owner: &model.Permission{
					Type:      model.Owner,
					Threshold: threshold,
					Keys:      []model.PermissionKey{{Address: key.Bytes(), Weight: threshold}},
				},
				Actives: []model.Permission{{
					Type:       model.Active,
					Name:       "active",
					Threshold:  threshold,
					Keys:       []model.PermissionKey{{Address: key.Bytes(), Weight: threshold}},
					Operations: make([]byte, 32),
				}},
			}
			ctx, err := m.ProcessContract(contract)
			if err != nil {
				return fmt.Errorf("contract rejected (request %s): %w", ctx.ID, err)
			}
			fmt.Printf("ok: request %s, fee charged %d\n", ctx.ID, ctx.ContractFee)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerHex, "owner", "", "owner address, hex-encoded")
	cmd.Flags().StringVar(&keyHex, "key", "", "new owner/active signing key address, hex-encoded")
	cmd.Flags().Int64Var(&threshold, "threshold", 1, "permission threshold and sole key weight")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newShowAccountCmd(m *manager.Manager) *cobra.Command {
	var ownerHex string
	cmd := &cobra.Command{
		Use:   "show-account",
		Short: "Print the stored account record for an address.",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := decodeAddress(ownerHex)
			if err != nil {
				return err
			}
			var acct model.Account
			found := false
			err = m.StateDB().View(func(tx *statedb.Tx) error {
				v, ok, err := statedb.Get(tx, statedb.AccountKey{Addr: owner})
				if err != nil {
					return err
				}
				acct, found = v, ok
				return nil
			})
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("account %s not found\n", owner)
				return nil
			}
			fmt.Printf("address: %s\nname: %s\nbalance: %d\n", owner, acct.Name, acct.Balance)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerHex, "address", "", "account address, hex-encoded")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func newCreditBlackholeCmd(m *manager.Manager) *cobra.Command {
	var amount int64
	cmd := &cobra.Command{
		Use:   "credit-blackhole",
		Short: "Credit the blackhole sink account directly, bypassing contract dispatch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := m.AddToBlackhole(amount); err != nil {
				return err
			}
			fmt.Printf("ok: blackhole credited %d\n", amount)
			return nil
		},
	}
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount to credit")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func decodeAddress(hexStr string) (addr.Address, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return addr.Address{}, fmt.Errorf("invalid hex address %q: %w", hexStr, err)
	}
	return addr.FromBytes(raw)
}
