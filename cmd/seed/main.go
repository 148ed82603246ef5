package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"wmx/internal/database"
	"wmx/internal/domain"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "wmx.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM email_logs")
	db.Exec("DELETE FROM activity_logs")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM attachments")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM invoices")
	db.Exec("DELETE FROM milestones")
	db.Exec("DELETE FROM projects")
	db.Exec("DELETE FROM portfolio_images")
	db.Exec("DELETE FROM portfolio_items")
	db.Exec("DELETE FROM service_offerings")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:            "admin@wmx.services",
		PasswordHash:     string(adminHash),
		Role:             domain.RoleAdmin,
		Name:             "WMX Admin",
		IsActive:         true,
		EmailVerified:    true,
		UnsubscribeToken: uuid.NewString(),
	}
	db.Create(&admin)
	log.Println("Admin created: admin@wmx.services / admin123")

	clients := []domain.User{}
	clientEmails := []string{"rina@example.com", "budi@example.com", "sari@example.com"}
	for i, email := range clientEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		client := domain.User{
			Email:            email,
			PasswordHash:     string(hash),
			Role:             domain.RoleClient,
			Name:             fmt.Sprintf("Client %d", i+1),
			Company:          fmt.Sprintf("Company %d", i+1),
			IsActive:         true,
			EmailVerified:    true,
			UnsubscribeToken: uuid.NewString(),
		}
		db.Create(&client)
		clients = append(clients, client)
	}

	// ================== SERVICE CATALOG ==================
	log.Println("Creating service offerings...")

	offerings := []domain.ServiceOffering{
		{Name: "Company Profile Website", Slug: "company-profile-website", Description: "Responsive marketing site with CMS", PriceFrom: 15_000_000, SortOrder: 1, Active: true},
		{Name: "E-Commerce Development", Slug: "e-commerce-development", Description: "Online store with payment integration", PriceFrom: 35_000_000, SortOrder: 2, Active: true},
		{Name: "Brand Identity", Slug: "brand-identity", Description: "Logo, guidelines and collateral", PriceFrom: 8_000_000, SortOrder: 3, Active: true},
		{Name: "SEO Retainer", Slug: "seo-retainer", Description: "Monthly optimization and reporting", PriceFrom: 5_000_000, SortOrder: 4, Active: true},
	}
	for i := range offerings {
		db.Create(&offerings[i])
	}

	// ================== PORTFOLIO ==================
	log.Println("Creating portfolio items...")

	items := []domain.PortfolioItem{
		{Title: "Archipelago Coffee", Description: "E-commerce build for a specialty roaster", Category: "e-commerce", SortOrder: 1, Published: true},
		{Title: "Nusantara Logistics", Description: "Corporate site and shipment tracker", Category: "web", SortOrder: 2, Published: true},
		{Title: "Batik Studio Rebrand", Description: "Full identity refresh", Category: "branding", SortOrder: 3, Published: false},
	}
	for i := range items {
		db.Create(&items[i])
	}

	// ================== PROJECTS & INVOICES ==================
	log.Println("Creating projects and invoices...")

	now := time.Now()
	start := now.AddDate(0, -1, 0)
	due := now.AddDate(0, 1, 0)
	pastDue := now.AddDate(0, 0, -7)

	p1 := domain.Project{
		ClientID:    clients[0].ID,
		Name:        "Company Website Revamp",
		Description: "Redesign and rebuild of the main marketing site",
		Status:      domain.ProjectInProgress,
		Progress:    45,
		StartDate:   &start,
		DueDate:     &due,
	}
	db.Create(&p1)

	milestones := []domain.Milestone{
		{ProjectID: p1.ID, Title: "Discovery & wireframes", Status: domain.MilestoneCompleted, SortOrder: 1},
		{ProjectID: p1.ID, Title: "Visual design", Status: domain.MilestoneInProgress, SortOrder: 2},
		{ProjectID: p1.ID, Title: "Development", Status: domain.MilestonePending, SortOrder: 3},
		{ProjectID: p1.ID, Title: "Launch", Status: domain.MilestonePending, SortOrder: 4},
	}
	for i := range milestones {
		db.Create(&milestones[i])
	}

	p2 := domain.Project{
		ClientID:    clients[1].ID,
		Name:        "Online Store",
		Description: "Storefront with local payment methods",
		Status:      domain.ProjectPlanning,
		Progress:    10,
		StartDate:   &now,
	}
	db.Create(&p2)

	invoices := []domain.Invoice{
		{Number: "INV-SEED-0001", ProjectID: p1.ID, ClientID: clients[0].ID, Amount: 7_500_000, Currency: "IDR", Status: domain.InvoicePending, DueDate: &due},
		{Number: "INV-SEED-0002", ProjectID: p1.ID, ClientID: clients[0].ID, Amount: 7_500_000, Currency: "IDR", Status: domain.InvoicePending, DueDate: &pastDue},
		{Number: "INV-SEED-0003", ProjectID: p2.ID, ClientID: clients[1].ID, Amount: 17_500_000, Currency: "IDR", Status: domain.InvoiceDraft},
	}
	for i := range invoices {
		db.Create(&invoices[i])
	}

	log.Println("Seed complete.")
}
