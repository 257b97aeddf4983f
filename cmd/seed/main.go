package main

import (
	"context"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"museo/internal/database"
	"museo/internal/domain"
	"museo/internal/repository"
	"museo/internal/schedule"
)

// Seeds the database with the principal admin, one staff member of each
// kind and a handful of sample bookings for the next operating days.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "museo.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	accounts := repository.NewAccountRepository(db)
	interns := repository.NewInternRepository(db)
	visits := repository.NewVisitRepository(db)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "cambiar-al-entrar"
	}

	if _, err := accounts.GetByEmail(ctx, "admin@museo.ec"); err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		admin := &domain.Account{
			Name:           "Gustavo Orcés",
			Email:          "admin@museo.ec",
			PasswordHash:   string(hash),
			Role:           domain.RoleAdmin,
			EmailConfirmed: true,
			Active:         true,
		}
		if err := accounts.Create(ctx, admin); err != nil {
			log.Fatal("seed admin failed:", err)
		}
		log.Println("Created admin admin@museo.ec")
	}

	seedStaff(ctx, accounts)
	seedInterns(ctx, interns)
	seedVisits(ctx, visits)

	log.Println("Seed complete")
}

func seedStaff(ctx context.Context, accounts *repository.AccountRepository) {
	staff := []domain.Account{
		{
			Name:  "Rosa Jaramillo",
			Email: "rosa@museo.ec",
			Kind:  domain.StaffAdministrative,
		},
		{
			Name:            "Diego Cevallos",
			Email:           "diego@museo.ec",
			Kind:            domain.StaffStudent,
			Faculty:         "Ciencias Biológicas",
			InternshipHours: 240,
		},
	}

	for _, s := range staff {
		if _, err := accounts.GetByEmail(ctx, s.Email); err == nil {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("museo-staff-2026"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		s.PasswordHash = string(hash)
		s.Role = domain.RoleStaff
		s.EmailConfirmed = true
		s.Active = true
		if err := accounts.Create(ctx, &s); err != nil {
			log.Fatal("seed staff failed:", err)
		}
		log.Println("Created staff", s.Email)
	}
}

func seedInterns(ctx context.Context, interns *repository.InternRepository) {
	sample := domain.Intern{
		Name:            "Valeria Mena",
		Email:           "valeria@museo.ec",
		Faculty:         "Geología",
		InternshipHours: 120,
		EmailConfirmed:  true,
		Active:          true,
	}
	if _, err := interns.GetByEmail(ctx, sample.Email); err == nil {
		return
	}
	if err := interns.Create(ctx, &sample); err != nil {
		log.Fatal("seed intern failed:", err)
	}
	log.Println("Created intern", sample.Email)
}

func seedVisits(ctx context.Context, visits *repository.VisitRepository) {
	day := nextWeekday(time.Now().AddDate(0, 0, 2))
	samples := []struct {
		institution string
		partySize   int
		label       string
	}{
		{"Colegio Mejía", 20, "09:00"},
		{"Escuela Sucre", 15, "09:00"},
		{"Universidad Central", 25, "10:30"},
	}

	for _, s := range samples {
		v := &domain.Visit{
			Institution: s.institution,
			PartySize:   s.partySize,
			VisitDate:   day,
			BlockLabel:  s.label,
			BlockID:     schedule.BlockID(day, s.label),
			Status:      domain.VisitPending,
		}
		if _, err := visits.CreateWithCapacity(ctx, v, 40); err != nil {
			log.Println("seed visit skipped:", err)
			continue
		}
		log.Printf("Created visit %s %s (%d people)", s.institution, s.label, s.partySize)
	}
}

func nextWeekday(t time.Time) time.Time {
	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
