// Command seed fills a database with fake registrations for local testing.
//
// Every generated form goes through the same validation and registration
// path as POST /api/users. Forms the validator rejects (a faker surname with
// an apostrophe, say) are regenerated. The issued credentials are printed so
// the records can be used against the running server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jaswdr/faker"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/model"
	sqliteRepo "github.com/sakif/form-backend/internal/repository/sqlite"
	"github.com/sakif/form-backend/internal/service"
	"github.com/sakif/form-backend/internal/validation"
)

const (
	defaultDBPath  = "data/forms.db"
	defaultCount   = 20
	defaultWorkers = 4
	maxAttempts    = 10
)

type config struct {
	DBPath    string
	Bootstrap bool
	Count     int
	Workers   int

	// Same variables and defaults as the server, so seeded rows verify
	// under the scheme the server runs with.
	PasswordScheme auth.Scheme
	BcryptCost     int
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := loadConfig()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func loadConfig() config {
	cfg := config{
		DBPath:         defaultDBPath,
		Count:          defaultCount,
		Workers:        defaultWorkers,
		PasswordScheme: auth.SchemeSHA256,
	}

	if v, ok := lookupEnv("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := lookupEnv("DB_BOOTSTRAP"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Bootstrap = b
		}
	}
	if v, ok := lookupEnv("SEED_COUNT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Count = n
		}
	}
	if v, ok := lookupEnv("SEED_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v, ok := lookupEnv("PASSWORD_SCHEME"); ok {
		cfg.PasswordScheme = auth.Scheme(strings.ToLower(v))
	}
	if v, ok := lookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BcryptCost = n
		}
	}

	return cfg
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	passwords, err := auth.NewPasswordServiceForScheme(cfg.PasswordScheme, cfg.BcryptCost)
	if err != nil {
		return err
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Bootstrap {
		if err := db.EnsureSchema(ctx, validation.DefaultLanguages); err != nil {
			return err
		}
	}

	languages, err := db.Languages().List(ctx)
	if err != nil {
		return err
	}
	if len(languages) == 0 {
		return errors.New("ProgrammingLanguages table is empty; run with DB_BOOTSTRAP=true")
	}
	names := make([]string, 0, len(languages))
	for _, l := range languages {
		names = append(names, l.Name)
	}

	validator := validation.NewValidator(names)
	users := service.NewUserService(db.Users(passwords, logger), validator, passwords, logger)

	// faker is not safe for concurrent use; forms are generated up front.
	fake := faker.New()
	forms := make([]url.Values, 0, cfg.Count)
	for range cfg.Count {
		form, err := validForm(fake, validator, names)
		if err != nil {
			return err
		}
		forms = append(forms, form)
	}

	results := make([]*service.RegisterResult, len(forms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, form := range forms {
		g.Go(func() error {
			res, errs, err := users.Register(gctx, form)
			if err != nil {
				return fmt.Errorf("registering form %d: %w", i, err)
			}
			if !errs.Valid() {
				return fmt.Errorf("form %d rejected: %v", i, errs)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("passwords hashed", slog.String("scheme", string(passwords.Scheme())))
	for _, res := range results {
		fmt.Printf("%d\t%s\t%s\t%s\n", res.User.ID, res.Username, res.Password, res.User.FullName())
	}
	logger.Info("seed completed", slog.Int("users", len(results)))
	return nil
}

// validForm generates registration forms until one passes validation.
func validForm(fake faker.Faker, v *validation.Validator, languages []string) (url.Values, error) {
	for range maxAttempts {
		form := fakeForm(fake, languages)
		if errs := v.ValidateForm(form); errs.Valid() {
			return form, nil
		}
	}
	return nil, fmt.Errorf("no valid form after %d attempts", maxAttempts)
}

func fakeForm(fake faker.Faker, languages []string) url.Values {
	person := fake.Person()
	fullName := person.LastName() + " " + person.FirstName()
	if fake.IntBetween(0, 1) == 1 {
		fullName += " " + person.FirstName()
	}

	birthdate := time.Now().AddDate(-fake.IntBetween(18, 65), -fake.IntBetween(0, 11), -fake.IntBetween(0, 27))

	picked := make([]string, 0, 3)
	for range fake.IntBetween(1, 3) {
		picked = append(picked, fake.RandomStringElement(languages))
	}

	return url.Values{
		validation.FieldFullName:  {fullName},
		validation.FieldPhone:     {fake.Numerify("+7 9## ###-####")},
		validation.FieldEmail:     {fake.Internet().Email()},
		validation.FieldBirthdate: {birthdate.Format(model.DateLayout)},
		validation.FieldGender:    {fake.RandomStringElement([]string{string(model.GenderMale), string(model.GenderFemale)})},
		validation.FieldLanguage:  picked,
		validation.FieldBio:       {fake.Lorem().Sentence(8)},
		validation.FieldContract:  {validation.ContractAccepted},
	}
}
