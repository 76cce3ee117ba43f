package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dropDatabas3/hellolist/internal/domain/repository"
	"github.com/dropDatabas3/hellolist/internal/security/password"
)

// readPassword lee la password de stdin (--password-stdin) o del TTY sin eco.
func readPassword(cmd *cobra.Command, fromStdin, confirm bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("leer stdin: %w", err)
		}
		pw := strings.TrimRight(line, "\r\n")
		if pw == "" {
			return "", errors.New("password vacía en stdin")
		}
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin no es una terminal; usar --password-stdin")
	}
	errOut := cmd.ErrOrStderr()
	fmt.Fprint(errOut, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", err
	}
	if confirm {
		fmt.Fprint(errOut, "Repeat password: ")
		b2, err := term.ReadPassword(fd)
		fmt.Fprintln(errOut)
		if err != nil {
			return "", err
		}
		if string(b) != string(b2) {
			return "", errors.New("las passwords no coinciden")
		}
	}
	if len(b) == 0 {
		return "", errors.New("password vacía")
	}
	return string(b), nil
}

func newOperatorCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Operadores habilitados a publicar",
	}

	var (
		username      string
		passwordStdin bool
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Crea un operador con password argon2id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username = strings.TrimSpace(username)
			if username == "" {
				return errors.New("--username es requerido")
			}
			pw, err := readPassword(cmd, passwordStdin, true)
			if err != nil {
				return err
			}
			if ok, reasons := password.DefaultPolicy.Validate(pw); !ok {
				return fmt.Errorf("password rechazada: %s", strings.Join(reasons, ", "))
			}
			hash, err := password.Hash(password.Default, pw)
			if err != nil {
				return err
			}

			conn, err := openStore(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			cred := repository.Credential{UserID: uuid.New(), Username: username, PasswordHash: hash}
			if err := conn.Credentials().Create(cmd.Context(), cred); err != nil {
				if repository.IsConflict(err) {
					return fmt.Errorf("el operador %q ya existe", username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operator %s created (user_id=%s)\n", username, cred.UserID)
			return nil
		},
	}
	add.Flags().StringVar(&username, "username", "", "nombre del operador")
	add.Flags().BoolVar(&passwordStdin, "password-stdin", false, "leer la password de stdin")

	cmd.AddCommand(add)
	return cmd
}

func newHashCmd() *cobra.Command {
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Imprime el hash PHC argon2id de una password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(cmd, passwordStdin, false)
			if err != nil {
				return err
			}
			hash, err := password.Hash(password.Default, pw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "leer la password de stdin")
	return cmd
}
