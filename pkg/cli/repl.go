// Package cli implements the interactive audit console.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/agent"
)

const banner = `
╔══════════════════════════════════════════════════════════════════════════════╗
║                                                                              ║
║                   DUNDER MIFFLIN AUDIT CHATBOT                               ║
║                                                                              ║
║                   Intelligent Audit System                                   ║
║                   Commissioned by Toby Flenderson                            ║
║                                                                              ║
╚══════════════════════════════════════════════════════════════════════════════╝
`

const helpText = `
AVAILABLE COMMANDS:

  help        - show this menu
  clear       - clear the screen
  sair/exit   - quit the program

EXAMPLE QUESTIONS:

  Level 1 - Compliance:
    - Posso gastar 200 dólares em um jantar?
    - Qual o limite para despesas intermediárias?
    - Quem pode aprovar gastos acima de $500?

  Level 2 - Email investigation:
    - O Michael está conspirando contra o Toby?
    - Alguém está planejando algo suspeito nos emails?
    - O que o Dwight disse sobre fraudes?

  Level 3 - Contextual audit:
    - Verifique transações suspeitas acima de $500
    - Existe alguma fraude combinada nos emails?
    - Quais gastos do Michael violam as regras?
`

var quitCommands = map[string]bool{
	"sair": true,
	"exit": true,
	"quit": true,
	"q":    true,
}

// REPL is the interactive question loop. It handles console commands itself
// and forwards everything else to the agent.
type REPL struct {
	agent *agent.Agent
	in    io.Reader
	out   io.Writer
}

func NewREPL(a *agent.Agent) *REPL {
	return &REPL{agent: a, in: os.Stdin, out: os.Stdout}
}

// NewREPLWithIO is used by tests to script the console.
func NewREPLWithIO(a *agent.Agent, in io.Reader, out io.Writer) *REPL {
	return &REPL{agent: a, in: in, out: out}
}

// Run reads questions until EOF or a quit command. Fatal agent errors are
// printed, not propagated: one failed question must not kill the console.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprint(r.out, banner)
	fmt.Fprint(r.out, helpText)

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "\nYour question (or 'help'): ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		switch {
		case quitCommands[strings.ToLower(question)]:
			fmt.Fprintln(r.out, "\nShutting down. Goodbye!")
			return nil
		case strings.EqualFold(question, "help"):
			fmt.Fprint(r.out, helpText)
			continue
		case strings.EqualFold(question, "clear"):
			fmt.Fprint(r.out, "\033[2J\033[H")
			fmt.Fprint(r.out, banner)
			continue
		}

		fmt.Fprintln(r.out, "\nAnalyzing... (the agent is thinking)")

		result, err := r.agent.Run(ctx, question)
		if err != nil {
			fmt.Fprintf(r.out, "\nFailed to process question: %v\n", err)
			fmt.Fprintln(r.out, "Try again, or type 'help'.")
			continue
		}

		divider := strings.Repeat("=", 80)
		fmt.Fprintln(r.out, divider)
		fmt.Fprintln(r.out, "ANSWER:")
		fmt.Fprintln(r.out, divider)
		fmt.Fprintf(r.out, "\n%s\n\n", result.Answer)
		if result.Status == agent.StatusExhausted {
			fmt.Fprintln(r.out, "(note: the reasoning budget ran out; this is a partial answer)")
		}
		fmt.Fprintln(r.out, divider)
	}
}
