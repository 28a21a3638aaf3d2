package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/taskapp/auth-service/internal/domain"
)

// fakeUserRepo is an in-memory UserRepo with the same atomicity contract
// as the real repos.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string

	getByEmailErr error // forced lookup failure when set
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getByEmailErr != nil {
		return domain.User{}, r.getByEmailErr
	}
	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *fakeUserRepo) SetTwoFactorSetup(_ context.Context, userID, secret string, codes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.TwoFactorSecret = secret
	u.BackupCodes = append([]string(nil), codes...)
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) EnableTwoFactor(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsTwoFactorEnabled = true
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) DisableTwoFactor(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.IsTwoFactorEnabled = false
	u.TwoFactorSecret = ""
	u.BackupCodes = nil
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) ConsumeBackupCode(_ context.Context, userID, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return false, domain.ErrUserNotFound()
	}
	for i, c := range u.BackupCodes {
		if c == code {
			u.BackupCodes = append(u.BackupCodes[:i], u.BackupCodes[i+1:]...)
			r.byID[userID] = u
			return true, nil
		}
	}
	return false, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type fakeSigner struct{}

func (fakeSigner) SignSessionToken(userID string, ttl time.Duration) (string, error) {
	return "tok:" + userID, nil
}

func (fakeSigner) VerifySessionToken(token string) (TokenClaims, error) {
	id, ok := strings.CutPrefix(token, "tok:")
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: id, Exp: time.Now().Add(time.Hour)}, nil
}

// fakeOTP accepts exactly one code ("123456") for the secret it generated.
type fakeOTP struct {
	secret string
}

func (f *fakeOTP) GenerateSecret() (string, error) { return f.secret, nil }

func (f *fakeOTP) ProvisioningURI(secret, account string) string {
	return "otpauth://totp/TaskApp%20(" + account + ")?secret=" + secret
}

func (f *fakeOTP) Verify(secret, code string, window int) bool {
	return secret == f.secret && code == "123456"
}

func (f *fakeOTP) GenerateBackupCodes(count int) ([]string, error) {
	codes := make([]string, count)
	for i := range codes {
		codes[i] = fmt.Sprintf("CODE%04d", i)
	}
	return codes, nil
}

type fakeReplayGuard struct {
	mu   sync.Mutex
	used map[string]bool
	err  error
}

func newFakeReplayGuard() *fakeReplayGuard {
	return &fakeReplayGuard{used: make(map[string]bool)}
}

func (g *fakeReplayGuard) MarkUsed(_ context.Context, userID, code string, _ time.Duration) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	key := userID + ":" + code
	if g.used[key] {
		return false, nil
	}
	g.used[key] = true
	return true, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []SecurityEvent
	err    error
}

func (p *recordingPublisher) PublishSecurityEvent(_ context.Context, evt SecurityEvent) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type svcFixture struct {
	svc    *Service
	users  *fakeUserRepo
	otp    *fakeOTP
	replay *fakeReplayGuard
	pub    *recordingPublisher
}

func newSvcFixture(cfg Config) svcFixture {
	users := newFakeUserRepo()
	otp := &fakeOTP{secret: "FAKESECRETBASE32"}
	replay := newFakeReplayGuard()
	pub := &recordingPublisher{}
	svc := NewService(users, fakeHasher{}, fakeSigner{}, otp, replay, pub, cfg)
	return svcFixture{svc: svc, users: users, otp: otp, replay: replay, pub: pub}
}
