package main

import (
	"github.com/spf13/cobra"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

func (a *app) registerCommand() *cobra.Command {
	var pubkeys []string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register public keys in the local registry",
		Long: "Register public keys in the local registry. A single --pubkey is " +
			"appended to the single-registration subtree; repeating the flag " +
			"2^batch_depth times registers one aligned batch.",
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) (err error) {
			if err := a.setup(); err != nil {
				return err
			}
			pubs := make([]wire.G2, len(pubkeys))
			for i, s := range pubkeys {
				if pubs[i], err = parseG2(s); err != nil {
					return err
				}
			}
			reg, journal, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := journal.Close(); err == nil {
					err = cerr
				}
			}()

			var first uint64
			if len(pubs) == 1 {
				first, err = reg.Register(pubs[0])
			} else {
				first, err = reg.RegisterBatch(pubs)
			}
			if err != nil {
				return err
			}
			a.log.Info("registered", "first", first, "count", len(pubs))

			a.printf("root: %s\n", reg.Root().Hex())
			for i := range pubs {
				id := first + uint64(i)
				witness, err := reg.Witness(id)
				if err != nil {
					return err
				}
				a.printf("account %d\n", id)
				for _, h := range witness {
					a.printf("  %s\n", h.Hex())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pubkeys, "pubkey", nil, "public key as four comma-separated 0x words (repeatable)")
	_ = cmd.MarkFlagRequired("pubkey")
	return cmd
}

func (a *app) rootHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the registry root and account counts",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) (err error) {
			if err := a.setup(); err != nil {
				return err
			}
			reg, journal, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer func() {
				if cerr := journal.Close(); err == nil {
					err = cerr
				}
			}()
			left, right := reg.Count()
			a.printf("root: %s\n", reg.Root().Hex())
			a.printf("single: %d\n", left)
			a.printf("batched: %d\n", right)
			return nil
		},
	}
}
