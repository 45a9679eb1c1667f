package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gastaro/gastaro/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	hash   string
	userID int64
	err    error
	users  map[int64]*auth.User
}

func (m *mockAuthRepository) GetCredentials(email string) (string, int64, error) {
	if m.err != nil {
		return "", 0, m.err
	}
	return m.hash, m.userID, nil
}

func (m *mockAuthRepository) GetUserByID(userID int64) (*auth.User, error) {
	u, exists := m.users[userID]
	if !exists {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

var _ = Describe("JWTTokenGenerator", func() {
	var tokens *auth.JWTTokenGenerator

	BeforeEach(func() {
		tokens = auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	})

	It("round-trips access token claims", func() {
		token, err := tokens.GenerateAccessToken("42", "alice@mail.com")
		Expect(err).ToNot(HaveOccurred())

		claims, err := tokens.ValidateToken(token)
		Expect(err).ToNot(HaveOccurred())
		Expect(claims.UserID).To(Equal("42"))
		Expect(claims.Email).To(Equal("alice@mail.com"))
	})

	It("round-trips refresh token claims", func() {
		token, err := tokens.GenerateRefreshToken("42", "alice@mail.com")
		Expect(err).ToNot(HaveOccurred())

		claims, err := tokens.ValidateToken(token)
		Expect(err).ToNot(HaveOccurred())
		Expect(claims.UserID).To(Equal("42"))
	})

	It("rejects a token signed with a different secret", func() {
		other := auth.NewJWTTokenGenerator("other-secret", "other-refresh", 15*time.Minute, 7*24*time.Hour)
		token, err := other.GenerateAccessToken("42", "alice@mail.com")
		Expect(err).ToNot(HaveOccurred())

		_, err = tokens.ValidateToken(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("rejects garbage", func() {
		_, err := tokens.ValidateToken("not.a.token")
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})
})

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockAuthRepository
	)

	BeforeEach(func() {
		hash, err := auth.HashPassword("s3cretpass", 4)
		Expect(err).ToNot(HaveOccurred())

		mockRepo = &mockAuthRepository{
			hash:   hash,
			userID: 42,
			users:  map[int64]*auth.User{42: {ID: 42, Email: "alice@mail.com", Name: "Alice"}},
		}
		tokens := auth.NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokens, 4, logger)
	})

	Describe("Authenticate", func() {
		It("issues both tokens on valid credentials", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: "alice@mail.com", Password: "s3cretpass"})

			Expect(err).ToNot(HaveOccurred())
			Expect(pair.AccessToken).ToNot(BeEmpty())
			Expect(pair.RefreshToken).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(pair.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("42"))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "alice@mail.com", Password: "wrong"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("hides whether the account exists", func() {
			mockRepo.err = auth.ErrInvalidCredentials

			_, err := service.Authenticate(auth.LoginDTO{Email: "ghost@mail.com", Password: "whatever"})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})
	})

	Describe("RefreshTokens", func() {
		It("exchanges a refresh token for a new pair", func() {
			pair, err := service.Authenticate(auth.LoginDTO{Email: "alice@mail.com", Password: "s3cretpass"})
			Expect(err).ToNot(HaveOccurred())

			renewed, err := service.RefreshTokens(pair.RefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(renewed.AccessToken).ToNot(BeEmpty())
		})

		It("rejects an invalid refresh token", func() {
			_, err := service.RefreshTokens("bogus")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})
})
