package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/neuroloc/internal/model"
	"github.com/ppiankov/neuroloc/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rolePrefix = regexp.MustCompile(`^([A-Za-z_]{1,20}):\s*(.*)$`)

// turnRoles are the prefixes read as a speaker. Any other "word:" prefix is
// part of what the patient said ("Vertigo: worse when I stand").
var turnRoles = map[string]bool{
	"patient":   true,
	"doctor":    true,
	"clinician": true,
	"user":      true,
	"assistant": true,
	"system":    true,
}

// interviewCmd represents the interview command
var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Accumulate findings turn by turn from stdin",
	Long: `Interview reads one turn per line from stdin, as "role: content" or bare
content (role defaults to patient). Each turn is parsed and folded into the
session: findings accumulate without deduplication and the level is fixed
by the first turn that reports one. After each turn one JSON line is printed
with that turn's result and the aggregated state.

Recognized roles are patient, doctor, clinician, user, assistant and system;
any other prefix stays part of the patient's words. A session left idle past
session.idle_ttl is resumed from the turns seen so far.

Commands: /reset starts a new session, /transcript prints the turns so far,
/quit exits.`,
	Args: cobra.NoArgs,
	RunE: runInterview,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

type interviewUpdate struct {
	Session string                    `json:"session"`
	Result  model.ParseResult         `json:"result"`
	State   model.SessionFindingState `json:"state"`
}

func runInterview(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.Session.IdleTTL)
	id := store.Create()
	logger.Debug("session started", zap.String("session", id))

	// Local copies let an idle-expired session be resumed without losing turns
	var turns []model.Turn
	state := model.NewSessionFindingState()

	out := json.NewEncoder(cmd.OutOrStdout())
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			store.Delete(id)
			id = store.Create()
			turns, state = nil, model.NewSessionFindingState()
			logger.Debug("session reset", zap.String("session", id))
			continue
		case "/transcript":
			transcript, err := store.Transcript(id)
			if errors.Is(err, session.ErrNotFound) {
				transcript = turns
			} else if err != nil {
				return fmt.Errorf("transcript: %w", err)
			}
			if err := out.Encode(map[string]any{"session": id, "messages": transcript}); err != nil {
				return err
			}
			continue
		}

		turn := parseTurnLine(line)
		text, _ := turn.Text()
		result := engine.Parse(text)

		next, err := store.Record(id, turn, result)
		if errors.Is(err, session.ErrNotFound) {
			expired := id
			id = store.Resume(turns, state)
			logger.Warn("session expired, resuming",
				zap.String("expired", expired),
				zap.String("session", id),
				zap.Int("turns", len(turns)))
			next, err = store.Record(id, turn, result)
		}
		if err != nil {
			return fmt.Errorf("record turn: %w", err)
		}
		turns = append(turns, turn)
		state = next

		if err := out.Encode(interviewUpdate{Session: id, Result: result, State: next}); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

// parseTurnLine splits "role: content" for known roles; anything else is
// patient content, prefix included
func parseTurnLine(line string) model.Turn {
	if m := rolePrefix.FindStringSubmatch(line); m != nil {
		if role := strings.ToLower(m[1]); turnRoles[role] {
			return model.Turn{Role: role, Content: m[2]}
		}
	}
	return model.Turn{Role: "patient", Content: line}
}
