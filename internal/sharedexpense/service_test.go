package sharedexpense_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/gastaro/gastaro/internal/core/events"
	"github.com/gastaro/gastaro/internal/expense"
	"github.com/gastaro/gastaro/internal/sharedexpense"
	"github.com/gastaro/gastaro/internal/user"
)

// Mock repository for testing
type mockProposalRepository struct {
	proposals   map[int64]*sharedexpense.Proposal
	entries     []*expense.Expense
	createError error
	acceptError error
	rejectError error
	nextID      int64
}

func newMockProposalRepository() *mockProposalRepository {
	return &mockProposalRepository{
		proposals: make(map[int64]*sharedexpense.Proposal),
		nextID:    1,
	}
}

func (m *mockProposalRepository) Create(p *sharedexpense.Proposal) error {
	if m.createError != nil {
		return m.createError
	}
	p.ID = m.nextID
	m.nextID++
	m.proposals[p.ID] = p
	return nil
}

func (m *mockProposalRepository) GetByID(id int64) (*sharedexpense.Proposal, error) {
	p, exists := m.proposals[id]
	if !exists {
		return nil, sharedexpense.ErrProposalNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProposalRepository) ListForUser(userID int64, limit, offset int) ([]*sharedexpense.Proposal, error) {
	result := []*sharedexpense.Proposal{}
	for _, p := range m.proposals {
		if p.OwnerID == userID || p.CounterpartyID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockProposalRepository) Accept(proposalID int64, respondedAt time.Time, ownerEntry, counterpartyEntry *expense.Expense) (int64, error) {
	if m.acceptError != nil {
		return 0, m.acceptError
	}
	p, exists := m.proposals[proposalID]
	if !exists {
		return 0, sharedexpense.ErrProposalNotFound
	}
	if p.Status != sharedexpense.StatusPending {
		return 0, sharedexpense.ErrAlreadySettled
	}

	ownerEntry.ID = int64(len(m.entries) + 100)
	counterpartyEntry.ID = int64(len(m.entries) + 101)
	m.entries = append(m.entries, ownerEntry, counterpartyEntry)

	p.Status = sharedexpense.StatusAccepted
	p.SettledExpenseID = &ownerEntry.ID
	p.RespondedAt = &respondedAt
	return ownerEntry.ID, nil
}

func (m *mockProposalRepository) Reject(proposalID int64, respondedAt time.Time) error {
	if m.rejectError != nil {
		return m.rejectError
	}
	p, exists := m.proposals[proposalID]
	if !exists {
		return sharedexpense.ErrProposalNotFound
	}
	if p.Status != sharedexpense.StatusPending {
		return sharedexpense.ErrAlreadySettled
	}
	p.Status = sharedexpense.StatusRejected
	p.RespondedAt = &respondedAt
	return nil
}

// Mock user directory for testing
type mockUserDirectory struct {
	users  map[int64]*user.User
	byCode map[string]*user.User
}

func newMockUserDirectory(users ...*user.User) *mockUserDirectory {
	m := &mockUserDirectory{
		users:  make(map[int64]*user.User),
		byCode: make(map[string]*user.User),
	}
	for _, u := range users {
		m.users[u.ID] = u
		m.byCode[u.UserCode] = u
	}
	return m
}

func (m *mockUserDirectory) GetByID(id int64) (*user.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserDirectory) ResolveByCode(actorID int64, code string) (*user.User, error) {
	u, exists := m.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !exists {
		return nil, user.ErrUserNotFound
	}
	if u.ID == actorID {
		return nil, user.ErrSelfLookup
	}
	return u, nil
}

// Mock publisher for testing
type mockPublisher struct {
	published    []events.Event
	publishError error
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	if m.publishError != nil {
		return m.publishError
	}
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("SharedExpenseService", func() {
	var (
		service   *sharedexpense.Service
		mockRepo  *mockProposalRepository
		mockUsers *mockUserDirectory
		publisher *mockPublisher
		owner     *user.User
		friend    *user.User
		ctx       context.Context
	)

	newProposalDTO := func() sharedexpense.CreateProposalDTO {
		return sharedexpense.CreateProposalDTO{
			CounterpartyCode: "FRND5678",
			TotalAmount:      dec("86.00"),
			SplitMode:        sharedexpense.SplitModeEqual,
			Description:      "Dinner at Luigi's",
			Category:         "food",
			ExpenseDate:      time.Now(),
		}
	}

	BeforeEach(func() {
		owner = &user.User{ID: 1, Name: "Alice", Email: "alice@mail.com", UserCode: "OWNR1234"}
		friend = &user.User{ID: 2, Name: "Bob", Email: "bob@mail.com", UserCode: "FRND5678"}

		mockRepo = newMockProposalRepository()
		mockUsers = newMockUserDirectory(owner, friend)
		publisher = &mockPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = sharedexpense.NewService(mockRepo, mockUsers, publisher, logger)
		ctx = context.Background()
	})

	Describe("CreateProposal", func() {
		It("persists a pending proposal without any ledger entries", func() {
			p, err := service.CreateProposal(ctx, owner.ID, newProposalDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Status).To(Equal(sharedexpense.StatusPending))
			Expect(p.OwnerID).To(Equal(owner.ID))
			Expect(p.CounterpartyID).To(Equal(friend.ID))
			Expect(p.SettledExpenseID).To(BeNil())
			Expect(mockRepo.entries).To(BeEmpty())
		})

		It("computes the equal split at proposal time", func() {
			dto := newProposalDTO()
			dto.TotalAmount = dec("86.01")

			p, err := service.CreateProposal(ctx, owner.ID, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(p.OwnerAmount.Equal(dec("43.01"))).To(BeTrue())
			Expect(p.CounterpartyAmount.Equal(dec("43.00"))).To(BeTrue())
		})

		It("snapshots the draft fields on the proposal", func() {
			dto := newProposalDTO()
			dto.Notes = "split the wine too"

			p, err := service.CreateProposal(ctx, owner.ID, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Draft.Description).To(Equal("Dinner at Luigi's"))
			Expect(p.Draft.Notes).To(Equal("split the wine too"))
		})

		It("publishes a proposed event aimed at the counterparty", func() {
			_, err := service.CreateProposal(ctx, owner.ID, newProposalDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(publisher.published).To(HaveLen(1))
			e, ok := publisher.published[0].(*events.SharedExpenseProposedEvent)
			Expect(ok).To(BeTrue())
			Expect(e.CounterpartyID).To(Equal(friend.ID))
			Expect(e.OwnerName).To(Equal("Alice"))
		})

		It("creates independent proposals for identical submissions", func() {
			first, err := service.CreateProposal(ctx, owner.ID, newProposalDTO())
			Expect(err).ToNot(HaveOccurred())

			second, err := service.CreateProposal(ctx, owner.ID, newProposalDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(second.ID).ToNot(Equal(first.ID))
			Expect(mockRepo.proposals).To(HaveLen(2))
		})

		It("rejects an unknown counterparty code", func() {
			dto := newProposalDTO()
			dto.CounterpartyCode = "NOPE0000"

			_, err := service.CreateProposal(ctx, owner.ID, dto)
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})

		It("rejects proposing to yourself", func() {
			dto := newProposalDTO()
			dto.CounterpartyCode = owner.UserCode

			_, err := service.CreateProposal(ctx, owner.ID, dto)
			Expect(err).To(MatchError(user.ErrSelfLookup))
		})

		It("still succeeds when the event publish fails", func() {
			publisher.publishError = context.DeadlineExceeded

			p, err := service.CreateProposal(ctx, owner.ID, newProposalDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Status).To(Equal(sharedexpense.StatusPending))
		})
	})

	Describe("Accept", func() {
		var proposal *sharedexpense.Proposal

		BeforeEach(func() {
			var err error
			proposal, err = service.CreateProposal(ctx, owner.ID, newProposalDTO())
			Expect(err).ToNot(HaveOccurred())
			publisher.published = nil
		})

		It("creates exactly two ledger entries, one per participant", func() {
			p, err := service.Accept(ctx, proposal.ID, friend.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Status).To(Equal(sharedexpense.StatusAccepted))
			Expect(p.SettledExpenseID).ToNot(BeNil())
			Expect(p.RespondedAt).ToNot(BeNil())

			Expect(mockRepo.entries).To(HaveLen(2))
			Expect(mockRepo.entries[0].UserID).To(Equal(owner.ID))
			Expect(mockRepo.entries[1].UserID).To(Equal(friend.ID))
		})

		It("annotates the counterparty entry with the owner's name", func() {
			_, err := service.Accept(ctx, proposal.ID, friend.ID)
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.entries[0].Description).To(Equal("Dinner at Luigi's"))
			Expect(mockRepo.entries[1].Description).To(Equal("Dinner at Luigi's (shared with Alice)"))
			Expect(mockRepo.entries[1].Notes).To(Equal("Shared expense"))
		})

		It("splits the entry amounts per the stored split", func() {
			_, err := service.Accept(ctx, proposal.ID, friend.ID)
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.entries[0].Amount.Equal(proposal.OwnerAmount)).To(BeTrue())
			Expect(mockRepo.entries[1].Amount.Equal(proposal.CounterpartyAmount)).To(BeTrue())
		})

		It("refuses the owner", func() {
			_, err := service.Accept(ctx, proposal.ID, owner.ID)
			Expect(err).To(MatchError(sharedexpense.ErrNotCounterparty))
			Expect(mockRepo.entries).To(BeEmpty())
		})

		It("refuses a second accept", func() {
			_, err := service.Accept(ctx, proposal.ID, friend.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Accept(ctx, proposal.ID, friend.ID)
			Expect(err).To(MatchError(sharedexpense.ErrAlreadySettled))
			Expect(mockRepo.entries).To(HaveLen(2))
		})

		It("refuses accept after reject", func() {
			_, err := service.Reject(ctx, proposal.ID, friend.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Accept(ctx, proposal.ID, friend.ID)
			Expect(err).To(MatchError(sharedexpense.ErrAlreadySettled))
			Expect(mockRepo.entries).To(BeEmpty())
		})

		It("notifies the owner of the acceptance", func() {
			_, err := service.Accept(ctx, proposal.ID, friend.ID)
			Expect(err).ToNot(HaveOccurred())

			Expect(publisher.published).To(HaveLen(1))
			e, ok := publisher.published[0].(*events.SharedExpenseRespondedEvent)
			Expect(ok).To(BeTrue())
			Expect(e.OwnerID).To(Equal(owner.ID))
			Expect(e.Status).To(Equal("accepted"))
			Expect(e.EventType()).To(Equal(events.EventTypeSharedExpenseAccepted))
		})

		It("settles even when the notification publish fails", func() {
			publisher.publishError = context.DeadlineExceeded

			p, err := service.Accept(ctx, proposal.ID, friend.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Status).To(Equal(sharedexpense.StatusAccepted))
			Expect(mockRepo.entries).To(HaveLen(2))
		})
	})

	Describe("Reject", func() {
		var proposal *sharedexpense.Proposal

		BeforeEach(func() {
			var err error
			proposal, err = service.CreateProposal(ctx, owner.ID, newProposalDTO())
			Expect(err).ToNot(HaveOccurred())
			publisher.published = nil
		})

		It("closes the proposal without creating ledger entries", func() {
			p, err := service.Reject(ctx, proposal.ID, friend.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Status).To(Equal(sharedexpense.StatusRejected))
			Expect(p.SettledExpenseID).To(BeNil())
			Expect(p.RespondedAt).ToNot(BeNil())
			Expect(mockRepo.entries).To(BeEmpty())
		})

		It("refuses a second reject", func() {
			_, err := service.Reject(ctx, proposal.ID, friend.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Reject(ctx, proposal.ID, friend.ID)
			Expect(err).To(MatchError(sharedexpense.ErrAlreadySettled))
		})

		It("refuses a stranger", func() {
			_, err := service.Reject(ctx, proposal.ID, 99)
			Expect(err).To(MatchError(sharedexpense.ErrNotCounterparty))
		})

		It("notifies the owner of the rejection", func() {
			_, err := service.Reject(ctx, proposal.ID, friend.ID)
			Expect(err).ToNot(HaveOccurred())

			Expect(publisher.published).To(HaveLen(1))
			e, ok := publisher.published[0].(*events.SharedExpenseRespondedEvent)
			Expect(ok).To(BeTrue())
			Expect(e.Status).To(Equal("rejected"))
			Expect(e.EventType()).To(Equal(events.EventTypeSharedExpenseRejected))
		})
	})

	Describe("ListForUser", func() {
		It("returns proposals on both sides of the user", func() {
			_, err := service.CreateProposal(ctx, owner.ID, newProposalDTO())
			Expect(err).ToNot(HaveOccurred())

			asOwner, err := service.ListForUser(owner.ID, 20, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(asOwner).To(HaveLen(1))

			asCounterparty, err := service.ListForUser(friend.ID, 20, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(asCounterparty).To(HaveLen(1))

			stranger, err := service.ListForUser(99, 20, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(stranger).To(BeEmpty())
		})
	})
})

var _ = Describe("Materialize", func() {
	It("prefixes the counterparty notes when the draft has notes", func() {
		p := &sharedexpense.Proposal{
			OwnerID:            1,
			CounterpartyID:     2,
			OwnerAmount:        dec("43.00"),
			CounterpartyAmount: dec("43.00"),
			Draft: sharedexpense.Draft{
				Description: "Dinner",
				Notes:       "with wine",
			},
		}

		ownerEntry, counterpartyEntry := p.Materialize("Alice", time.Now())

		Expect(ownerEntry.Notes).To(Equal("with wine"))
		Expect(counterpartyEntry.Notes).To(Equal("Shared expense - with wine"))
	})

	It("carries the attachment reference to both entries", func() {
		p := &sharedexpense.Proposal{
			OwnerAmount:        dec("10.00"),
			CounterpartyAmount: dec("10.00"),
			Draft: sharedexpense.Draft{
				Description:   "Taxi",
				AttachmentRef: "ab3e9f.jpg",
			},
		}

		ownerEntry, counterpartyEntry := p.Materialize("Alice", time.Now())

		Expect(ownerEntry.AttachmentRef).To(Equal("ab3e9f.jpg"))
		Expect(counterpartyEntry.AttachmentRef).To(Equal("ab3e9f.jpg"))
	})
})

var _ = Describe("CreateProposalDTO", func() {
	It("rejects a missing description", func() {
		dto := sharedexpense.CreateProposalDTO{
			CounterpartyCode: "FRND5678",
			TotalAmount:      decimal.NewFromInt(10),
			SplitMode:        sharedexpense.SplitModeEqual,
			ExpenseDate:      time.Now(),
		}
		Expect(dto.Validate()).To(HaveOccurred())
	})

	It("rejects custom mode without both amounts", func() {
		dto := sharedexpense.CreateProposalDTO{
			CounterpartyCode: "FRND5678",
			TotalAmount:      decimal.NewFromInt(10),
			SplitMode:        sharedexpense.SplitModeCustom,
			Description:      "Dinner",
			ExpenseDate:      time.Now(),
		}
		Expect(dto.Validate()).To(HaveOccurred())
	})
})
