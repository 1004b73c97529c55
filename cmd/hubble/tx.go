package main

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/snaketh4x0r/RedditHubble/tx"
)

func (a *app) txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transfer record tools",
	}
	cmd.AddCommand(a.txInspectCommand(), a.txEncodeCommand())
	return cmd
}

func (a *app) txInspectCommand() *cobra.Command {
	var blob string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Decode a blob of 80-byte transfer records",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			data, err := hexutil.Decode(blob)
			if err != nil {
				return err
			}
			n := tx.Size(data)
			a.printf("records: %d\n", n)
			a.printf("excess: %t\n", tx.HasExcessData(data))
			for i := 0; i < n; i++ {
				t, err := tx.Decode(data[i*tx.RecordSize : (i+1)*tx.RecordSize])
				if err != nil {
					return err
				}
				a.printf("%d: sender=%d receiver=%d token=%d nonce=%d amount=%d hash=%s\n",
					i, t.SenderID, t.ReceiverID, t.TokenType, t.Nonce, t.Amount.Uint64(), t.Hash().Hex())
			}
			a.metrics.AddRecords("decode", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&blob, "blob", "", "0x-prefixed transfer blob")
	_ = cmd.MarkFlagRequired("blob")
	return cmd
}

func (a *app) txEncodeCommand() *cobra.Command {
	var (
		sender, receiver, token, nonce, amount uint64
		signature                              string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode one transfer record",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			sig, err := parseG1(signature)
			if err != nil {
				return err
			}
			t, err := tx.NewTransfer(sender, receiver, token, nonce, amount, sig)
			if err != nil {
				return err
			}
			a.printf("record: %s\n", hexutil.Encode(t.Encode()))
			a.printf("message: %s\n", hexutil.Encode(t.Message()))
			a.printf("hash: %s\n", t.Hash().Hex())
			a.metrics.AddRecords("encode", 1)
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&sender, "sender", 0, "sender account ID")
	f.Uint64Var(&receiver, "receiver", 0, "receiver account ID")
	f.Uint64Var(&token, "token", 0, "token type")
	f.Uint64Var(&nonce, "nonce", 0, "sender nonce")
	f.Uint64Var(&amount, "amount", 0, "amount in base units")
	f.StringVar(&signature, "signature", "0x00,0x00", "signature as two comma-separated 0x words")
	return cmd
}
