package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lcalzada-xor/authgate/internal/config"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"github.com/lcalzada-xor/authgate/internal/core/services/features"
	"github.com/lcalzada-xor/authgate/internal/telemetry"
)

// ThreatGate runs the inline classification pipeline for one login attempt:
// feature extraction, oracle call, verdict enforcement and its side effects
// (threat ledger, blacklist, audit log, broadcast).
//
// Enforcement is zero-tolerance: ANY non-benign label blocks regardless of
// confidence. Confidence is recorded verbatim, never thresholded.
type ThreatGate struct {
	extractor  *features.Extractor
	classifier ports.Classifier
	ledger     ports.ThreatLedger
	blacklist  ports.BlacklistGate
	auditor    ports.FeatureAuditor
	notifier   ports.ThreatNotifier
	mode       config.FailureMode
}

// New wires the gate. notifier may be nil when no observers are attached.
func New(
	extractor *features.Extractor,
	classifier ports.Classifier,
	ledger ports.ThreatLedger,
	blacklist ports.BlacklistGate,
	auditor ports.FeatureAuditor,
	mode config.FailureMode,
) *ThreatGate {
	return &ThreatGate{
		extractor:  extractor,
		classifier: classifier,
		ledger:     ledger,
		blacklist:  blacklist,
		auditor:    auditor,
		mode:       mode,
	}
}

// SetNotifier attaches the real-time observer channel. Wired after
// construction because the websocket hub is created with the web server.
func (g *ThreatGate) SetNotifier(n ports.ThreatNotifier) {
	g.notifier = n
}

// Evaluate classifies one login attempt and enforces the verdict. It always
// returns a decision; classifier failures resolve through the configured
// failure mode instead of propagating.
func (g *ThreatGate) Evaluate(ctx context.Context, attempt domain.LoginAttempt) domain.Decision {
	vector := g.extractor.Extract(attempt)

	verdict, err := g.classifier.Classify(ctx, vector)
	if err != nil {
		return g.resolveFailure(attempt, err)
	}

	if verdict.Benign() {
		telemetry.ClassificationsTotal.WithLabelValues("benign").Inc()
		g.audit(vector, domain.LabelBenign)
		return domain.Decision{Allow: true}
	}

	return g.enforce(ctx, attempt, vector, *verdict)
}

// enforce handles a non-benign verdict: translate the label, record the
// threat, blacklist the source, audit the vector, notify observers, deny.
func (g *ThreatGate) enforce(ctx context.Context, attempt domain.LoginAttempt, vector domain.FeatureVector, verdict domain.Verdict) domain.Decision {
	threatType, mapped := domain.MapThreatLabel(verdict.Label)
	if !mapped {
		// Passthrough is not an error, but unknown oracle vocabulary is
		// worth seeing in the logs.
		slog.Info("unmapped oracle label passed through",
			"label", verdict.Label, "ip", attempt.ClientIP().String())
	}

	ip := attempt.ClientIP().String()

	record, err := domain.NewThreatRecord(ip, threatType, verdict.Confidence, domain.StatusBlocked)
	if err == nil {
		record.Details["endpoint"] = attempt.Path
		record.Details["label"] = verdict.Label
		if err := g.ledger.SaveThreat(ctx, record); err != nil {
			telemetry.PersistenceErrors.WithLabelValues("ledger").Inc()
			slog.Error("failed to persist threat record", "ip", ip, "type", threatType, "error", err)
		} else if g.notifier != nil {
			g.notifier.NotifyThreat(*record)
		}
	} else {
		telemetry.PersistenceErrors.WithLabelValues("ledger").Inc()
		slog.Error("failed to build threat record", "ip", ip, "error", err)
	}

	entry, err := domain.NewBlacklistEntry(ip, fmt.Sprintf("Blocked due to %s attempt", threatType))
	if err == nil {
		if err := g.blacklist.Add(ctx, *entry); err != nil {
			// The in-memory deny still holds; only durability suffered.
			telemetry.PersistenceErrors.WithLabelValues("blacklist").Inc()
			slog.Error("failed to persist blacklist entry", "ip", ip, "error", err)
		}
	} else {
		telemetry.PersistenceErrors.WithLabelValues("blacklist").Inc()
		slog.Error("failed to build blacklist entry", "ip", ip, "error", err)
	}

	g.audit(vector, domain.LabelAttack)

	telemetry.ClassificationsTotal.WithLabelValues("threat").Inc()
	telemetry.ThreatsBlocked.WithLabelValues(string(threatType)).Inc()

	// Persistence failures above never flip the deny: fail-closed on the
	// deny path.
	return domain.Decision{
		Allow:      false,
		ThreatType: threatType,
		Confidence: verdict.Confidence,
		Message:    fmt.Sprintf("Threat detected and blocked: %s", threatType),
	}
}

// resolveFailure applies the configured failure mode to a classifier error.
// Either way the event is observable: a metric and a structured log fire even
// when fail-open leaves the request's behavior unchanged.
func (g *ThreatGate) resolveFailure(attempt domain.LoginAttempt, err error) domain.Decision {
	kind := "transport"
	if isProtocolError(err) {
		kind = "protocol"
	}
	telemetry.ClassifierErrors.WithLabelValues(kind).Inc()

	if g.mode == config.FailClosed {
		slog.Warn("classifier failed, denying login (fail-closed)",
			"ip", attempt.ClientIP().String(), "kind", kind, "error", err)
		return domain.Decision{
			Allow:   false,
			Message: "Unable to classify request",
		}
	}

	telemetry.ClassificationsTotal.WithLabelValues("unscored").Inc()
	slog.Warn("classifier failed, allowing login unscored (fail-open)",
		"ip", attempt.ClientIP().String(), "kind", kind, "error", err)
	return domain.Decision{Allow: true, Unscored: true}
}

func (g *ThreatGate) audit(vector domain.FeatureVector, label domain.SampleLabel) {
	if err := g.auditor.Append(vector, label); err != nil {
		telemetry.PersistenceErrors.WithLabelValues("audit").Inc()
		slog.Error("failed to append feature audit row", "label", label, "error", err)
	}
}

func isProtocolError(err error) bool {
	return errors.Is(err, ports.ErrVerdictMalformed)
}

// Ensure interface compliance
var _ ports.ThreatGate = (*ThreatGate)(nil)
