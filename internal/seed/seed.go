// Package seed creates demo data for development databases. It goes through
// the service layer so seeded rows pass the same validation as API traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"askly/internal/auth"
	"askly/internal/middleware"
	"askly/internal/models"
	"askly/internal/repository"
	"askly/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "password123"

var tagPool = []string{"go", "sql", "http", "redis", "docker", "testing", "security", "performance", "api", "linux"}

// Options controls how much data Run creates.
type Options struct {
	Users              int
	Questions          int
	MaxAnswersPerQuest int
	// Seed makes output reproducible; zero picks a random seed.
	Seed int64
}

// Result counts what Run created.
type Result struct {
	Users     []*models.User
	Questions int
	Answers   int
}

// Seeder builds fake users, questions and answers.
type Seeder struct {
	auth      *service.AuthService
	questions *service.QuestionService
	answers   *service.AnswerService
	faker     *gofakeit.Faker
}

// NewSeeder binds a seeder to store.
func NewSeeder(store repository.Store, hasher auth.Hasher, seed int64) *Seeder {
	guard := service.NewOwnershipGuard(store.Questions(), store.Answers())
	return &Seeder{
		auth:      service.NewAuthService(store.Users(), hasher, nil),
		questions: service.NewQuestionService(store.Questions(), guard),
		answers:   service.NewAnswerService(store.Answers(), store.Questions(), guard),
		faker:     gofakeit.New(seed),
	}
}

// Run creates opts.Users accounts, then questions and answers spread across them.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users <= 0 {
		return nil, fmt.Errorf("seed needs at least one user")
	}

	res := &Result{}
	for i := 0; i < opts.Users; i++ {
		user, err := s.auth.Signup(ctx, service.SignupInput{
			Name:     s.faker.Name(),
			Email:    fmt.Sprintf("seed%d.%s", i, s.faker.Email()),
			Password: DefaultPassword,
		})
		if err != nil {
			return res, fmt.Errorf("seed user %d: %w", i, err)
		}
		res.Users = append(res.Users, user)
	}

	for i := 0; i < opts.Questions; i++ {
		author := res.Users[s.faker.Number(0, len(res.Users)-1)]
		q, err := s.questions.CreateQuestion(ctx, service.CreateQuestionInput{
			UserID:  author.ID,
			Title:   s.faker.Sentence(6),
			Content: s.faker.Paragraph(1, 3, 8, "\n\n"),
			Tags:    s.tags(),
		})
		if err != nil {
			return res, fmt.Errorf("seed question %d: %w", i, err)
		}
		res.Questions++

		if opts.MaxAnswersPerQuest <= 0 {
			continue
		}
		for j := s.faker.Number(0, opts.MaxAnswersPerQuest); j > 0; j-- {
			responder := res.Users[s.faker.Number(0, len(res.Users)-1)]
			if _, err := s.answers.CreateAnswer(ctx, service.CreateAnswerInput{
				UserID:     responder.ID,
				QuestionID: q.ID,
				Content:    s.faker.Paragraph(1, 2, 10, " "),
			}); err != nil {
				return res, fmt.Errorf("seed answer for %s: %w", q.ID, err)
			}
			res.Answers++
		}
	}

	middleware.Logger.InfoContext(ctx, "Seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("questions", res.Questions),
		slog.Int("answers", res.Answers),
	)
	return res, nil
}

func (s *Seeder) tags() []string {
	n := s.faker.Number(0, 3)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, s.faker.RandomString(tagPool))
	}
	return tags
}
