package main

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/snaketh4x0r/RedditHubble/bls"
)

var errInvalidSignature = errors.New("signature is invalid")

// messageFlags reads a message given either as text or as 0x-hex.
type messageFlags struct {
	text string
	hex  string
}

func (m *messageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&m.text, "message", "", "message as text")
	cmd.Flags().StringVar(&m.hex, "message-hex", "", "message as 0x-prefixed hex")
	cmd.MarkFlagsMutuallyExclusive("message", "message-hex")
	cmd.MarkFlagsOneRequired("message", "message-hex")
}

func (m *messageFlags) bytes() ([]byte, error) {
	if m.hex != "" {
		return hexutil.Decode(m.hex)
	}
	return []byte(m.text), nil
}

func (a *app) keygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a BLS key pair",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			kp, err := bls.GenerateKeyPair()
			if err != nil {
				return err
			}
			a.printf("secret: %s\n", kp.Secret.Hex())
			a.printf("pubkey: %s\n", strings.Join(kp.Public.Hex(), ","))
			return nil
		},
	}
}

func (a *app) signCommand() *cobra.Command {
	var (
		secret string
		msg    messageFlags
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message under the configured domain",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			sk, err := bls.ParseSecretKey(secret)
			if err != nil {
				return err
			}
			message, err := msg.bytes()
			if err != nil {
				return err
			}
			scheme, err := a.scheme()
			if err != nil {
				return err
			}
			sig, point, err := scheme.Sign(message, sk)
			if err != nil {
				return err
			}
			a.log.Debug("signed message", "size", len(message))
			a.printf("signature: %s\n", strings.Join(sig.Hex(), ","))
			a.printf("message point: %s\n", strings.Join(point.Hex(), ","))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "0x-prefixed 32-byte secret key")
	_ = cmd.MarkFlagRequired("secret")
	msg.register(cmd)
	return cmd
}

func (a *app) verifyCommand() *cobra.Command {
	var (
		signature string
		pubkey    string
		msg       messageFlags
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature against a public key",
		Long:  "Verify a signature against a public key. Exits non-zero when the signature does not verify.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			sig, err := parseG1(signature)
			if err != nil {
				return err
			}
			pub, err := parseG2(pubkey)
			if err != nil {
				return err
			}
			message, err := msg.bytes()
			if err != nil {
				return err
			}
			scheme, err := a.scheme()
			if err != nil {
				return err
			}
			ok, err := scheme.Verify(sig, pub, message)
			if err != nil {
				return err
			}
			a.printf("valid: %t\n", ok)
			if !ok {
				return errInvalidSignature
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&signature, "signature", "", "signature as two comma-separated 0x words")
	cmd.Flags().StringVar(&pubkey, "pubkey", "", "public key as four comma-separated 0x words")
	_ = cmd.MarkFlagRequired("signature")
	_ = cmd.MarkFlagRequired("pubkey")
	msg.register(cmd)
	return cmd
}
