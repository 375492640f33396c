package cmd

import (
	"fmt"
	"log"

	"github.com/centrushr/hr-management/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the capability catalog and a default admin",
	Long:  `Seed the permission catalog, the bootstrap administrator and sample records for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "attachments", "travel_requests", "documents", "company_documents", "employees", "user_permissions", "sessions", "users", "permissions"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		descriptions := map[string]string{
			auth.CapEmployeeList:      "Visualizar lista de funcionários",
			auth.CapEmployeeCreate:    "Cadastrar e editar funcionários",
			auth.CapEmployeeDocuments: "Gerenciar documentos de funcionários",
			auth.CapReports:           "Gerar relatórios",
			auth.CapCompanyDocuments:  "Gerenciar documentos da empresa",
			auth.CapTravelRequests:    "Acessar solicitações de viagem",
			auth.CapTravelAttachments: "Gerenciar anexos de viagem",
			auth.CapUserManagement:    "Gerenciar usuários",
		}

		for _, name := range auth.Catalog() {
			var pid int64
			row := db.Raw("SELECT id FROM permissions WHERE name = ?", name).Row()
			if err := row.Scan(&pid); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO permissions (name, description) VALUES (?, ?)", name, descriptions[name]).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", name, err)
			}
			fmt.Println("Seeded permission:", name)
		}

		adminEmail := "admin@centrus.com"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin user already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		err = db.Exec(`INSERT INTO users
			(name, email, password_digest, role, is_active, can_create_travel, can_approve_travel, can_delete_travel, created_at)
			VALUES (?, ?, ?, 'admin', 1, 1, 1, 1, CURRENT_TIMESTAMP)`,
			"Administrador", adminEmail, string(hash)).Error
		if err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}

		fmt.Println("Seeded admin user:", adminEmail, "/ admin123")
	},
}
