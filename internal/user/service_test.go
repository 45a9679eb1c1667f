package user_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gastaro/gastaro/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users       map[int64]*user.User
	byEmail     map[string]*user.User
	byCode      map[string]*user.User
	takenCodes  map[string]bool
	createError error
	nextID      int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[int64]*user.User),
		byEmail:    make(map[string]*user.User),
		byCode:     make(map[string]*user.User),
		takenCodes: make(map[string]bool),
		nextID:     1,
	}
}

func (m *mockUserRepository) Create(u *user.User) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	m.byCode[u.UserCode] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*user.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*user.User, error) {
	u, exists := m.byEmail[email]
	if !exists {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByCode(code string) (*user.User, error) {
	u, exists := m.byCode[code]
	if !exists {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) CodeExists(code string) (bool, error) {
	if m.takenCodes[code] {
		return true, nil
	}
	_, exists := m.byCode[code]
	return exists, nil
}

func (m *mockUserRepository) UpdateCurrency(id int64, currency string) error {
	u, exists := m.users[id]
	if !exists {
		return user.ErrUserNotFound
	}
	u.Currency = currency
	return nil
}

var _ = Describe("GenerateCode", func() {
	It("produces 8 characters over A-Z0-9", func() {
		for i := 0; i < 50; i++ {
			code, err := user.GenerateCode()
			Expect(err).ToNot(HaveOccurred())
			Expect(code).To(HaveLen(user.CodeLength))
			Expect(user.ValidCode(code)).To(BeTrue())
		}
	})
})

var _ = Describe("ValidCode", func() {
	It("rejects lowercase, short and decorated inputs", func() {
		Expect(user.ValidCode("abcd1234")).To(BeFalse())
		Expect(user.ValidCode("ABC123")).To(BeFalse())
		Expect(user.ValidCode("ABCD12345")).To(BeFalse())
		Expect(user.ValidCode("ABCD-123")).To(BeFalse())
		Expect(user.ValidCode("")).To(BeFalse())
		Expect(user.ValidCode("ABCD1234")).To(BeTrue())
	})
})

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, 4, logger)
	})

	Describe("Register", func() {
		It("creates an account with a lookup code and USD default", func() {
			u, err := service.Register("alice@mail.com", "Alice", "s3cretpass")

			Expect(err).ToNot(HaveOccurred())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(user.ValidCode(u.UserCode)).To(BeTrue())
			Expect(u.Currency).To(Equal("USD"))
		})

		It("normalizes the email", func() {
			u, err := service.Register("  Alice@Mail.COM ", "Alice", "s3cretpass")

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Email).To(Equal("alice@mail.com"))
		})

		It("rejects a duplicate email", func() {
			_, err := service.Register("alice@mail.com", "Alice", "s3cretpass")
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Register("alice@mail.com", "Other Alice", "s3cretpass")
			Expect(err).To(MatchError(user.ErrEmailTaken))
		})

		It("does not store the plaintext password", func() {
			_, err := service.Register("alice@mail.com", "Alice", "s3cretpass")
			Expect(err).ToNot(HaveOccurred())

			stored := mockRepo.byEmail["alice@mail.com"]
			Expect(stored.PasswordHash).ToNot(BeEmpty())
			Expect(stored.PasswordHash).ToNot(Equal("s3cretpass"))
		})
	})

	Describe("ResolveByCode", func() {
		var alice, bob *user.User

		BeforeEach(func() {
			reg, err := service.Register("alice@mail.com", "Alice", "s3cretpass")
			Expect(err).ToNot(HaveOccurred())
			alice = mockRepo.users[reg.ID]

			reg, err = service.Register("bob@mail.com", "Bob", "s3cretpass")
			Expect(err).ToNot(HaveOccurred())
			bob = mockRepo.users[reg.ID]
		})

		It("resolves another user's code", func() {
			found, err := service.ResolveByCode(alice.ID, bob.UserCode)
			Expect(err).ToNot(HaveOccurred())
			Expect(found.ID).To(Equal(bob.ID))
		})

		It("is case and whitespace tolerant", func() {
			found, err := service.ResolveByCode(alice.ID, "  "+bob.UserCode+" ")
			Expect(err).ToNot(HaveOccurred())
			Expect(found.ID).To(Equal(bob.ID))
		})

		It("refuses resolving your own code", func() {
			_, err := service.ResolveByCode(alice.ID, alice.UserCode)
			Expect(err).To(MatchError(user.ErrSelfLookup))
		})

		It("rejects malformed codes without hitting the repository", func() {
			_, err := service.ResolveByCode(alice.ID, "nope")
			Expect(err).To(MatchError(user.ErrInvalidUserCode))
		})

		It("reports unknown codes as not found", func() {
			_, err := service.ResolveByCode(alice.ID, "ZZZZ9999")
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})
	})

	Describe("UpdateCurrency", func() {
		var alice *user.User

		BeforeEach(func() {
			reg, err := service.Register("alice@mail.com", "Alice", "s3cretpass")
			Expect(err).ToNot(HaveOccurred())
			alice = mockRepo.users[reg.ID]
		})

		It("accepts a supported currency, normalized", func() {
			Expect(service.UpdateCurrency(alice.ID, " eur ")).To(Succeed())
			Expect(alice.Currency).To(Equal("EUR"))
		})

		It("rejects an unsupported currency", func() {
			Expect(service.UpdateCurrency(alice.ID, "XYZ")).To(HaveOccurred())
			Expect(alice.Currency).To(Equal("USD"))
		})
	})
})
