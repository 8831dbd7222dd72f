package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tccs_backend/internal/models"
)

// InitDB opens the database connection using environment variables, runs the
// automigration and seeds the bootstrap records. The handle is returned to
// the caller and injected into every operation; there is no package-level
// connection.
func InitDB() (*gorm.DB, error) {
	// Load .env (if present)
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found – relying on env vars")
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "tccs")
	sslmode := getEnv("DB_SSLMODE", "disable")
	timezone := getEnv("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Truck{},
		&models.Consignment{},
		&models.ConsignmentTruck{},
		&models.TruckAssignment{},
		&models.Revenue{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}

	if err := seed(db); err != nil {
		return nil, fmt.Errorf("seeding failed: %w", err)
	}

	return db, nil
}

// seed creates the bootstrap records on first run: one headquarters branch,
// one default manager account and two fleet-standard trucks.
func seed(db *gorm.DB) error {
	var branchCount int64
	if err := db.Model(&models.Branch{}).Count(&branchCount).Error; err != nil {
		return err
	}

	var hq models.Branch
	if branchCount == 0 {
		hq = models.Branch{
			Name:     "Main Branch",
			Location: "Headquarters",
			Contact:  "+91-1234567890",
			Address:  "Main Street, City",
		}
		if err := db.Create(&hq).Error; err != nil {
			return err
		}
		logrus.Info("Default branch created")
	} else {
		if err := db.Order("id").First(&hq).Error; err != nil {
			return err
		}
	}

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Username: "admin",
			Password: string(hash),
			Name:     "System Administrator",
			Role:     models.RoleManager,
			BranchID: &hq.ID,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		logrus.Info("Default admin (admin/admin123) created")
	}

	var truckCount int64
	if err := db.Model(&models.Truck{}).Count(&truckCount).Error; err != nil {
		return err
	}
	if truckCount == 0 {
		now := time.Now().UTC()
		for i := 1; i <= 2; i++ {
			t := models.Truck{
				Registration: fmt.Sprintf("TRK-%03d", i),
				Capacity:     models.DefaultTruckCapacity,
				Status:       models.TruckAvailable,
				BranchID:     hq.ID,
				IdleSince:    &now,
			}
			if err := db.Create(&t).Error; err != nil {
				return err
			}
		}
		logrus.Info("Default fleet created")
	}

	return nil
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}
