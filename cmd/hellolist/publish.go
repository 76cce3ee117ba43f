package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type publishPayload struct {
	Title   string `json:"title"`
	Content struct {
		HTML string `json:"html"`
		Text string `json:"text"`
	} `json:"content"`
}

// fileOr devuelve el contenido de path si no está vacío, o inline.
func fileOr(path, inline string) (string, error) {
	if path == "" {
		return inline, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newPublishCmd() *cobra.Command {
	var (
		baseURL       string
		username      string
		passwordStdin bool
		title         string
		html, text    string
		htmlFile      string
		textFile      string
		timeout       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publica un newsletter vía POST /newsletters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || title == "" {
				return errors.New("--username y --title son requeridos")
			}
			var p publishPayload
			p.Title = title
			var err error
			if p.Content.HTML, err = fileOr(htmlFile, html); err != nil {
				return err
			}
			if p.Content.Text, err = fileOr(textFile, text); err != nil {
				return err
			}
			if p.Content.HTML == "" || p.Content.Text == "" {
				return errors.New("se requiere contenido html y text (--html/--html-file, --text/--text-file)")
			}
			pw, err := readPassword(cmd, passwordStdin, false)
			if err != nil {
				return err
			}

			body, _ := json.Marshal(p)
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
				strings.TrimRight(baseURL, "/")+"/newsletters", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.SetBasicAuth(username, pw)

			resp, err := (&http.Client{Timeout: timeout}).Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			rb, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
			if resp.StatusCode/100 != 2 {
				return fmt.Errorf("publish fallo: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "published")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&baseURL, "url", envOr("HELLOLIST_URL", "http://127.0.0.1:8000"), "URL base del servicio (env HELLOLIST_URL)")
	f.StringVar(&username, "username", envOr("HELLOLIST_USERNAME", ""), "operador (env HELLOLIST_USERNAME)")
	f.BoolVar(&passwordStdin, "password-stdin", false, "leer la password de stdin")
	f.StringVar(&title, "title", "", "título (subject)")
	f.StringVar(&html, "html", "", "contenido HTML")
	f.StringVar(&text, "text", "", "contenido texto plano")
	f.StringVar(&htmlFile, "html-file", "", "archivo con el contenido HTML")
	f.StringVar(&textFile, "text-file", "", "archivo con el contenido texto plano")
	f.DurationVar(&timeout, "timeout", 30*time.Second, "timeout del request")
	return cmd
}
