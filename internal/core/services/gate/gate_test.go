package gate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lcalzada-xor/authgate/internal/config"
	"github.com/lcalzada-xor/authgate/internal/core/domain"
	"github.com/lcalzada-xor/authgate/internal/core/ports"
	"github.com/lcalzada-xor/authgate/internal/core/services/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClassifier implements ports.Classifier for testing.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, features domain.FeatureVector) (*domain.Verdict, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Verdict), args.Error(1)
}

// MockLedger implements ports.ThreatLedger.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) SaveThreat(ctx context.Context, record *domain.ThreatRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLedger) CountThreats(ctx context.Context, status domain.ThreatStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) CountByType(ctx context.Context) ([]domain.TypeCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TypeCount), args.Error(1)
}

func (m *MockLedger) RecentThreats(ctx context.Context, limit int) ([]domain.ThreatRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ThreatRecord), args.Error(1)
}

func (m *MockLedger) ThreatsSince(ctx context.Context, start time.Time) ([]domain.ThreatRecord, error) {
	args := m.Called(ctx, start)
	return args.Get(0).([]domain.ThreatRecord), args.Error(1)
}

func (m *MockLedger) UpdateThreatStatus(ctx context.Context, id uint, status domain.ThreatStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockBlacklist implements ports.BlacklistGate.
type MockBlacklist struct {
	mock.Mock
}

func (m *MockBlacklist) Contains(ip string) bool {
	return m.Called(ip).Bool(0)
}

func (m *MockBlacklist) Add(ctx context.Context, entry domain.BlacklistEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockBlacklist) Remove(ctx context.Context, ip string) error {
	return m.Called(ctx, ip).Error(0)
}

func (m *MockBlacklist) List(ctx context.Context) ([]domain.BlacklistEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.BlacklistEntry), args.Error(1)
}

// MockAuditor implements ports.FeatureAuditor.
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Append(features domain.FeatureVector, label domain.SampleLabel) error {
	return m.Called(features, label).Error(0)
}

// MockNotifier implements ports.ThreatNotifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyThreat(record domain.ThreatRecord) {
	m.Called(record)
}

type gateFixture struct {
	classifier *MockClassifier
	ledger     *MockLedger
	blacklist  *MockBlacklist
	auditor    *MockAuditor
	notifier   *MockNotifier
	gate       *ThreatGate
}

func newFixture(mode config.FailureMode) *gateFixture {
	f := &gateFixture{
		classifier: new(MockClassifier),
		ledger:     new(MockLedger),
		blacklist:  new(MockBlacklist),
		auditor:    new(MockAuditor),
		notifier:   new(MockNotifier),
	}
	f.gate = New(
		features.NewExtractor(features.NewSessionTracker()),
		f.classifier, f.ledger, f.blacklist, f.auditor, mode,
	)
	f.gate.SetNotifier(f.notifier)
	return f
}

func attempt() domain.LoginAttempt {
	return domain.LoginAttempt{
		Email:      "mallory@gmail.com",
		Password:   "' OR 1=1 --",
		Method:     "POST",
		Path:       "/api/login",
		UserAgent:  "curl/8.0",
		RemoteIP:   "203.0.113.66:40000",
		FieldCount: 2,
		SessionKey: "s",
		Time:       time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
	}
}

func TestEvaluate_BenignAllows(t *testing.T) {
	f := newFixture(config.FailOpen)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything).Return(&domain.Verdict{Label: "BENIGN", Confidence: 0.99}, nil)
	f.auditor.On("Append", mock.Anything, domain.LabelBenign).Return(nil)

	d := f.gate.Evaluate(ctx, attempt())

	assert.True(t, d.Allow)
	assert.False(t, d.Unscored)
	f.ledger.AssertNotCalled(t, "SaveThreat", mock.Anything, mock.Anything)
	f.blacklist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.auditor.AssertCalled(t, "Append", mock.Anything, domain.LabelBenign)
}

func TestEvaluate_BenignIsCaseSensitive(t *testing.T) {
	f := newFixture(config.FailOpen)
	ctx := context.Background()

	// "benign" is not the sentinel; it passes through as a threat type.
	f.classifier.On("Classify", ctx, mock.Anything).Return(&domain.Verdict{Label: "benign", Confidence: 0.5}, nil)
	f.ledger.On("SaveThreat", ctx, mock.Anything).Return(nil)
	f.blacklist.On("Add", ctx, mock.Anything).Return(nil)
	f.auditor.On("Append", mock.Anything, domain.LabelAttack).Return(nil)
	f.notifier.On("NotifyThreat", mock.Anything).Return()

	d := f.gate.Evaluate(ctx, attempt())
	assert.False(t, d.Allow)
}

func TestEvaluate_ThreatBlocksAndRecords(t *testing.T) {
	f := newFixture(config.FailOpen)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything).Return(&domain.Verdict{Label: "SQL_INJECTION", Confidence: 0.92}, nil)
	f.ledger.On("SaveThreat", ctx, mock.MatchedBy(func(r *domain.ThreatRecord) bool {
		return r.ThreatType == domain.ThreatSQLInjection &&
			r.Status == domain.StatusBlocked &&
			r.Confidence == 0.92 &&
			r.IP == "203.0.113.66"
	})).Return(nil)
	f.blacklist.On("Add", ctx, mock.MatchedBy(func(e domain.BlacklistEntry) bool {
		return e.IP == "203.0.113.66" && e.Reason == "Blocked due to SQL Injection attempt"
	})).Return(nil)
	f.auditor.On("Append", mock.Anything, domain.LabelAttack).Return(nil)
	f.notifier.On("NotifyThreat", mock.MatchedBy(func(r domain.ThreatRecord) bool {
		return r.ThreatType == domain.ThreatSQLInjection
	})).Return()

	d := f.gate.Evaluate(ctx, attempt())

	require.False(t, d.Allow)
	assert.Equal(t, domain.ThreatSQLInjection, d.ThreatType)
	assert.Equal(t, 0.92, d.Confidence)
	assert.Equal(t, "Threat detected and blocked: SQL Injection", d.Message)

	f.ledger.AssertExpectations(t)
	f.blacklist.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestEvaluate_LowConfidenceStillBlocks(t *testing.T) {
	// Zero tolerance: no threshold on confidence.
	f := newFixture(config.FailOpen)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything).Return(&domain.Verdict{Label: "BRUTE_FORCE", Confidence: 0.01}, nil)
	f.ledger.On("SaveThreat", ctx, mock.Anything).Return(nil)
	f.blacklist.On("Add", ctx, mock.Anything).Return(nil)
	f.auditor.On("Append", mock.Anything, domain.LabelAttack).Return(nil)
	f.notifier.On("NotifyThreat", mock.Anything).Return()

	d := f.gate.Evaluate(ctx, attempt())
	assert.False(t, d.Allow)
	assert.Equal(t, 0.01, d.Confidence)
}

func TestEvaluate_PassthroughLabel(t *testing.T) {
	f := newFixture(config.FailOpen)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything).Return(&domain.Verdict{Label: "ZERO_DAY", Confidence: 0.7}, nil)
	f.ledger.On("SaveThreat", ctx, mock.MatchedBy(func(r *domain.ThreatRecord) bool {
		return r.ThreatType == domain.ThreatType("ZERO_DAY")
	})).Return(nil)
	f.blacklist.On("Add", ctx, mock.Anything).Return(nil)
	f.auditor.On("Append", mock.Anything, domain.LabelAttack).Return(nil)
	f.notifier.On("NotifyThreat", mock.Anything).Return()

	d := f.gate.Evaluate(ctx, attempt())
	assert.False(t, d.Allow)
	assert.Equal(t, domain.ThreatType("ZERO_DAY"), d.ThreatType)
}

func TestEvaluate_PersistenceFailureStillDenies(t *testing.T) {
	f := newFixture(config.FailOpen)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything).Return(&domain.Verdict{Label: "XSS", Confidence: 0.8}, nil)
	f.ledger.On("SaveThreat", ctx, mock.Anything).Return(fmt.Errorf("db locked"))
	f.blacklist.On("Add", ctx, mock.Anything).Return(fmt.Errorf("db locked"))
	f.auditor.On("Append", mock.Anything, domain.LabelAttack).Return(nil)

	d := f.gate.Evaluate(ctx, attempt())

	// An already-decided deny never flips back to allow.
	assert.False(t, d.Allow)
	assert.Equal(t, domain.ThreatXSS, d.ThreatType)
	// No broadcast for a record that was never persisted.
	f.notifier.AssertNotCalled(t, "NotifyThreat", mock.Anything)
}

func TestEvaluate_FailOpen(t *testing.T) {
	f := newFixture(config.FailOpen)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything).Return(nil, ports.ErrClassifierUnavailable)

	d := f.gate.Evaluate(ctx, attempt())

	assert.True(t, d.Allow)
	assert.True(t, d.Unscored)
	f.auditor.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "SaveThreat", mock.Anything, mock.Anything)
}

func TestEvaluate_FailClosed(t *testing.T) {
	f := newFixture(config.FailClosed)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything).Return(nil, fmt.Errorf("decode: %w", ports.ErrVerdictMalformed))

	d := f.gate.Evaluate(ctx, attempt())

	assert.False(t, d.Allow)
	assert.Equal(t, "Unable to classify request", d.Message)
	assert.Empty(t, d.ThreatType)
}
