package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/digital-library/internal/core/domain"
	mongodb "github.com/openshelf/digital-library/internal/infrastructure/db/mongo"
)

const (
	seedAdminEmail    = "admin@library.com"
	seedAdminPassword = "admin123"
)

var seedBooks = []domain.Book{
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Description: "A story of decadence and the American Dream.", Category: "Fiction", BookType: "Novel", PublishedYear: 1925, CoverURL: "https://covers.openlibrary.org/b/id/10613930-M.jpg"},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Description: "Racial injustice in the American South.", Category: "Fiction", BookType: "Novel", PublishedYear: 1960, CoverURL: "https://covers.openlibrary.org/b/id/8305832-M.jpg"},
	{Title: "1984", Author: "George Orwell", Description: "Dystopian totalitarian regime.", Category: "Fiction", BookType: "Novel", PublishedYear: 1949, CoverURL: "https://covers.openlibrary.org/b/id/7222246-M.jpg"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Description: "Romance and social commentary in Regency England.", Category: "Romance", BookType: "Novel", PublishedYear: 1813, CoverURL: "https://covers.openlibrary.org/b/id/13270442-M.jpg"},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Description: "Bilbo Baggins and the quest for treasure.", Category: "Fantasy", BookType: "Novel", PublishedYear: 1937, CoverURL: "https://covers.openlibrary.org/b/id/6979862-M.jpg"},
	{Title: "The Da Vinci Code", Author: "Dan Brown", Description: "Mystery thriller involving art and secret societies.", Category: "Thriller", BookType: "Novel", PublishedYear: 2003, CoverURL: "https://covers.openlibrary.org/b/id/104833-M.jpg"},
	{Title: "Sapiens", Author: "Yuval Noah Harari", Description: "A brief history of humankind.", Category: "History", BookType: "Non-Fiction", PublishedYear: 2011, CoverURL: "https://covers.openlibrary.org/b/id/10275134-M.jpg"},
	{Title: "Atomic Habits", Author: "James Clear", Description: "Tiny changes for remarkable results.", Category: "Self-Help", BookType: "Non-Fiction", PublishedYear: 2018, CoverURL: "https://covers.openlibrary.org/b/id/15229304-M.jpg"},
	{Title: "Dune", Author: "Frank Herbert", Description: "Epic science fiction on the desert planet Arrakis.", Category: "Science Fiction", BookType: "Novel", PublishedYear: 1965, CoverURL: "https://covers.openlibrary.org/b/id/11525154-M.jpg"},
	{Title: "Project Hail Mary", Author: "Andy Weir", Description: "A lone astronaut must save Earth.", Category: "Science Fiction", BookType: "Novel", PublishedYear: 2021, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "The Midnight Library", Author: "Matt Haig", Description: "A library between life and death with infinite books.", Category: "Fiction", BookType: "Novel", PublishedYear: 2020, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "The Phoenix Project", Author: "Gene Kim, Kevin Behr, George Spafford", Description: "A novel about IT, DevOps, and helping your business win.", Category: "DevOps", BookType: "Technical", PublishedYear: 2013, CoverURL: "https://covers.openlibrary.org/b/id/10992158-M.jpg"},
	{Title: "The DevOps Handbook", Author: "Gene Kim, Jez Humble, Patrick Debois, John Willis", Description: "World-class agility, reliability, and security in technology organizations.", Category: "DevOps", BookType: "Technical", PublishedYear: 2016, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Accelerate", Author: "Nicole Forsgren, Jez Humble, Gene Kim", Description: "Building and scaling high performing technology organizations.", Category: "DevOps", BookType: "Technical", PublishedYear: 2018, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Site Reliability Engineering", Author: "Betsy Beyer, Chris Jones, Jennifer Petoff, Niall Richard Murphy", Description: "How Google runs production systems. The definitive SRE guide.", Category: "SRE", BookType: "Technical", PublishedYear: 2016, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Continuous Delivery", Author: "Jez Humble, David Farley", Description: "Reliable software releases through build, test, and deployment automation.", Category: "CI/CD", BookType: "Development", PublishedYear: 2010, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Docker Deep Dive", Author: "Nigel Poulton", Description: "Practical guide to containerization with Docker.", Category: "Docker", BookType: "Technical", PublishedYear: 2022, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Kubernetes in Action", Author: "Marko Luksa", Description: "Complete guide to Kubernetes: deploying and managing containerized applications.", Category: "Kubernetes", BookType: "Technical", PublishedYear: 2017, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Terraform: Up and Running", Author: "Yevgeniy Brikman", Description: "Infrastructure as code with HashiCorp Terraform. AWS, GCP, Azure.", Category: "Terraform", BookType: "Technical", PublishedYear: 2019, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Description: "Reliable, scalable, and maintainable systems. Essential for platform engineers.", Category: "DevOps", BookType: "Technical", PublishedYear: 2017, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Fluent Python", Author: "Luciano Ramalho", Description: "Clear, concise, and effective Python. Essential for scripting and automation.", Category: "Python", BookType: "Programming", PublishedYear: 2021, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "The Linux Command Line", Author: "William Shotts", Description: "A complete introduction to bash and the command line. Scripting.", Category: "Bash", BookType: "Programming", PublishedYear: 2019, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
	{Title: "Deep Learning", Author: "Ian Goodfellow, Yoshua Bengio, Aaron Courville", Description: "Foundational textbook on deep learning and neural networks.", Category: "AI", BookType: "Technical", PublishedYear: 2016, CoverURL: "https://covers.openlibrary.org/b/id/12883462-M.jpg"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog with demo books and ensure the demo admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		client, db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer closeDB(client)

		// Memberships reference books, so they go first.
		if _, err := db.Collection("user_books").DeleteMany(ctx, bson.D{}); err != nil {
			return err
		}
		if _, err := db.Collection("books").DeleteMany(ctx, bson.D{}); err != nil {
			return err
		}

		books := mongodb.NewBookRepository(db)
		now := time.Now().UTC()
		for i := range seedBooks {
			b := seedBooks[i]
			b.CreatedAt = now
			b.UpdatedAt = now
			if _, err := books.Create(ctx, &b); err != nil {
				return err
			}
		}
		cmd.Printf("Seeded %d books.\n", len(seedBooks))

		if err := upsertAdmin(ctx, db, seedAdminEmail, seedAdminPassword, "Admin"); err != nil {
			return err
		}
		cmd.Printf("Admin account ready: %s / %s\n", seedAdminEmail, seedAdminPassword)
		return nil
	},
}

// upsertAdmin creates the admin account or resets an existing account to
// admin with the given password.
func upsertAdmin(ctx context.Context, db *mongo.Database, email, password, name string) error {
	users := mongodb.NewUserRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.PasswordHash = string(hash)
		existing.Role = domain.RoleAdmin
		existing.Name = name
		existing.UpdatedAt = time.Now().UTC()
		return users.Update(ctx, existing)
	case !errors.Is(err, domain.ErrUserNotFound):
		return err
	}

	now := time.Now().UTC()
	_, err = users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return err
}
