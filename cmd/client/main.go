package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/term"

	"tokenrelay/internal/client"
	"tokenrelay/internal/config"
	"tokenrelay/internal/logging"
)

func main() {
	email := flag.String("email", "", "account email (prompted when empty)")
	password := flag.String("password", "", "account password (prompted when empty)")
	calls := flag.Int("calls", 1, "number of protected calls to make")
	interval := flag.Duration("interval", 0, "pause between protected calls")
	flag.Parse()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewText(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, *email, *password, *calls, *interval); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, client.ErrLoginAgain) {
			fmt.Fprintln(os.Stderr, "Login again")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ClientConfig, logger logging.Logger, email, password string, calls int, interval time.Duration) error {
	in := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := readLine(in)
		if err != nil {
			return err
		}
		email = line
	}
	if password == "" {
		p, err := promptPassword(in)
		if err != nil {
			return err
		}
		password = p
	}

	transport := client.NewHTTPTransport(cfg.ServerURL, cfg.Timeout)
	orchestrator := client.NewOrchestrator(transport, logger)

	session, err := transport.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Println("Logged in")

	for i := 0; i < calls; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}

		var result client.Protected
		attempt, err := orchestrator.Do(ctx, session, func(ctx context.Context, accessToken string) error {
			p, err := transport.Protected(ctx, accessToken)
			if err != nil {
				return err
			}
			result = p
			return nil
		})
		session = attempt.Session
		if err != nil {
			return err
		}
		if attempt.Renewals > 0 {
			fmt.Println("Access token renewed")
		}
		fmt.Printf("%s (user %s)\n", result.Message, result.User.Email)
	}
	return nil
}

func promptPassword(in *bufio.Reader) (string, error) {
	fmt.Print("Password: ")
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
