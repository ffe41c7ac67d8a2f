package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
)

// ErrInputClosed is returned when the input ends while a question is pending
var ErrInputClosed = errors.New("input closed")

// leaveWords end the session at the betting prompt
var leaveWords = []string{"q", "quit", "leave"}

// actionKeys maps answers at the play prompt to actions
var actionKeys = map[string]blackjack.Action{
	"h":      blackjack.Hit,
	"hit":    blackjack.Hit,
	"s":      blackjack.Stand,
	"stand":  blackjack.Stand,
	"d":      blackjack.Double,
	"double": blackjack.Double,
	"split":  blackjack.Split,
	"exit":   blackjack.Exit,
}

// Player is a human at the terminal. It implements blackjack.Agent and
// blackjack.Bettor and re-asks until the answer is one the engine allows.
type Player struct {
	in     *bufio.Scanner
	out    io.Writer
	styles Styles
	logger *log.Logger

	start sync.Once
	lines chan answer
}

type answer struct {
	text string
	err  error
}

// NewPlayer reads answers from in and writes prompts to out
func NewPlayer(in io.Reader, out io.Writer, styles Styles, logger *log.Logger) *Player {
	return &Player{
		in:     bufio.NewScanner(in),
		out:    out,
		styles: styles,
		logger: logger.WithPrefix("console"),
		lines:  make(chan answer),
	}
}

// Deposit asks for the starting balance until it is a whole number of at least minimum
func (p *Player) Deposit(ctx context.Context, minimum int) (int, error) {
	for {
		line, err := p.ask(ctx, fmt.Sprintf("Deposit Balance (minimum %d): $", minimum))
		if err != nil {
			return 0, err
		}
		amount, err := strconv.Atoi(line)
		if err != nil || amount < minimum {
			p.warn(fmt.Sprintf("Please deposit a whole amount of at least $%d", minimum))
			continue
		}
		return amount, nil
	}
}

// Bet implements blackjack.Bettor
func (p *Player) Bet(ctx context.Context, req blackjack.WagerRequest) (blackjack.Wager, error) {
	if req.Rejected != nil {
		p.warn(rejection(req.Rejected, req.Attempted, req))
	}
	fmt.Fprintf(p.out, "\nBalance: $%d\n", req.Balance)

	prompt := fmt.Sprintf("\nPlace Bet Amount [main, left sidebet, right sidebet] in multiples of %d: $", req.Rules.BetUnit)
	if !req.Previous.IsZero() {
		fmt.Fprintf(p.out, "\nLast Bet: Main $%d, Left sidebet $%d, Right sidebet $%d\n",
			req.Previous.Main, req.Previous.SideLeft, req.Previous.SideRight)
		prompt = fmt.Sprintf("Place Bet Amount [main, left sidebet, right sidebet] \nin multiples of %d (enter '%s' to repeat last bet): $",
			req.Rules.BetUnit, blackjack.RepeatToken)
	}

	for {
		line, err := p.ask(ctx, prompt)
		if err != nil {
			return blackjack.Wager{}, err
		}
		for _, word := range leaveWords {
			if strings.EqualFold(line, word) {
				return blackjack.Wager{}, blackjack.ErrLeaveTable
			}
		}
		w, err := blackjack.ParseWager(line)
		if err != nil {
			p.warn("Invalid bet")
			p.logger.Debug("Unparseable wager", "input", line, "error", err)
			continue
		}
		if _, err := blackjack.ResolveWager(w, req.Previous, req.Balance, req.Rules); err != nil {
			p.warn(rejection(err, w, req))
			p.logger.Debug("Wager refused", "wager", w.String(), "error", err)
			continue
		}
		return w, nil
	}
}

// Decide implements blackjack.Agent
func (p *Player) Decide(ctx context.Context, req blackjack.DecisionRequest) (blackjack.Action, error) {
	if req.Rejected != nil {
		p.warn(req.Rejected.Error())
	}
	switch req.Prompt {
	case blackjack.PromptInsurance:
		yes, err := p.confirm(ctx, fmt.Sprintf("\nDealer has an Ace. Do you want to buy insurance for $%d? (y/n): ", req.InsuranceStake))
		if err != nil {
			return 0, err
		}
		if yes {
			return blackjack.Insure, nil
		}
		return blackjack.DeclineInsurance, nil

	case blackjack.PromptConfirmExit:
		bets := "BET"
		if req.HandCount > 1 {
			bets = "ALL ACTIVE BETS"
		}
		yes, err := p.confirm(ctx, fmt.Sprintf("\nDo you want to exit the game? %s WILL BE FORFEITED (y/n): ", bets))
		if err != nil {
			return 0, err
		}
		if yes {
			return blackjack.ConfirmExit, nil
		}
		return blackjack.CancelExit, nil

	default:
		return p.play(ctx, req)
	}
}

func (p *Player) play(ctx context.Context, req blackjack.DecisionRequest) (blackjack.Action, error) {
	prompt := playPrompt(req.Legality.Allowed)
	if req.HandCount > 1 {
		prompt = req.Hand.Name + ": " + prompt
	}
	for {
		line, err := p.ask(ctx, "\n"+p.styles.Actions.Render(prompt))
		if err != nil {
			return 0, err
		}
		action, ok := actionKeys[strings.ToLower(line)]
		switch {
		case !ok:
			p.warn("Invalid response. " + respondWith(req.Legality.Allowed))
		case !req.Legality.Allows(action):
			p.warn(denial(action, req))
			p.warn(respondWith(req.Legality.Allowed))
		default:
			return action, nil
		}
	}
}

func (p *Player) confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		line, err := p.ask(ctx, prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.warn("Please respond with 'y' or 'n'")
	}
}

// ask writes prompt and returns the next trimmed line. Reading happens on
// its own goroutine so a cancelled context is noticed while the terminal waits.
func (p *Player) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.start.Do(func() { go p.read() })
	fmt.Fprint(p.out, prompt)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if a.err != nil {
			return "", a.err
		}
		return strings.TrimSpace(a.text), nil
	}
}

func (p *Player) read() {
	defer close(p.lines)
	for p.in.Scan() {
		p.lines <- answer{text: p.in.Text()}
	}
	if err := p.in.Err(); err != nil {
		p.lines <- answer{err: fmt.Errorf("reading answer: %w", err)}
	}
}

func (p *Player) warn(msg string) {
	fmt.Fprintln(p.out, p.styles.Warning.Render(msg))
}

// keys is the answer shown for each action, in prompt order
var keys = map[blackjack.Action]struct{ label, key string }{
	blackjack.Hit:    {"Hit", "h"},
	blackjack.Double: {"Double Down", "d"},
	blackjack.Split:  {"Split", "split"},
	blackjack.Stand:  {"Stand", "s"},
	blackjack.Exit:   {"", "exit"},
}

// promptOrder lists actions as the table has always asked for them
var promptOrder = []blackjack.Action{blackjack.Hit, blackjack.Double, blackjack.Split, blackjack.Stand}

var answerOrder = []blackjack.Action{blackjack.Hit, blackjack.Double, blackjack.Split, blackjack.Stand, blackjack.Exit}

func playPrompt(allowed []blackjack.Action) string {
	var parts []string
	for _, a := range promptOrder {
		if slices.Contains(allowed, a) {
			parts = append(parts, fmt.Sprintf("%s (%s)", keys[a].label, keys[a].key))
		}
	}
	prompt := strings.Join(parts, "/ ")
	if slices.Contains(allowed, blackjack.Exit) {
		prompt += " or exit"
	}
	return prompt + ": "
}

func respondWith(allowed []blackjack.Action) string {
	var quoted []string
	for _, a := range answerOrder {
		if slices.Contains(allowed, a) {
			quoted = append(quoted, "'"+keys[a].key+"'")
		}
	}
	if len(quoted) < 2 {
		return "Please respond with " + strings.Join(quoted, "")
	}
	return "Please respond with " + strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func denial(a blackjack.Action, req blackjack.DecisionRequest) string {
	reason := req.Legality.Reason(a)
	switch {
	case errors.Is(reason, blackjack.ErrInsufficientBalance):
		return fmt.Sprintf("Insufficient balance to %s (Required $%d, Balance $%d).",
			verb(a), 2*req.Hand.Bets[blackjack.BetMain], req.Balance)
	case errors.Is(reason, blackjack.ErrAlreadySplit) && a == blackjack.Double:
		return "Cannot double down after splitting"
	case errors.Is(reason, blackjack.ErrAlreadySplit):
		return "Cannot split again."
	case errors.Is(reason, blackjack.ErrNotAPair):
		return "Can only split a pair."
	case errors.Is(reason, blackjack.ErrNotFirstDecision):
		return fmt.Sprintf("Can only %s on the first two cards.", verb(a))
	default:
		return fmt.Sprintf("Cannot %s now.", verb(a))
	}
}

func verb(a blackjack.Action) string {
	if a == blackjack.Double {
		return "double down"
	}
	return a.String()
}

// rejection words err, the reason w was refused
func rejection(err error, w blackjack.Wager, req blackjack.WagerRequest) string {
	switch {
	case errors.Is(err, blackjack.ErrNoPreviousBet):
		return "No previous bet to repeat"
	case errors.Is(err, blackjack.ErrInsufficientBalance) && w.Repeat:
		return fmt.Sprintf("Insufficient balance to repeat last bet (Required $%d, Balance $%d)", req.Previous.Total(), req.Balance)
	case errors.Is(err, blackjack.ErrInsufficientBalance):
		return fmt.Sprintf("Insufficient balance ($%d)", req.Balance)
	default:
		return "Invalid bet: " + err.Error()
	}
}
