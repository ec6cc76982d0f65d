// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"ladle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	RecipesPerUser int
	ShouldClean    bool
}

var (
	tagNames = []string{
		"Vegan", "Vegetarian", "Dessert", "Breakfast", "Lunch", "Dinner",
		"Quick", "Comfort Food", "Spicy", "Gluten Free", "Low Carb",
		"Italian", "Mexican", "Thai", "Indian", "Japanese", "BBQ",
		"Soup", "Salad", "Baking", "One Pot", "Meal Prep",
	}

	ingredientNames = []string{
		"Salt", "Pepper", "Olive Oil", "Garlic", "Onion", "Butter",
		"Eggs", "Flour", "Sugar", "Milk", "Chicken", "Beef", "Salmon",
		"Rice", "Pasta", "Tomatoes", "Basil", "Ginger", "Soy Sauce",
		"Lemon", "Cheese", "Mushrooms", "Spinach", "Potatoes", "Carrots",
		"Chili", "Cumin", "Paprika", "Coconut Milk", "Honey",
	}

	dishStyles = []string{
		"Roasted", "Grilled", "Slow-Cooked", "Pan-Seared", "Crispy",
		"Creamy", "Smoky", "Herbed", "Stuffed", "Classic",
	}

	dishBases = []string{
		"Chicken Curry", "Mushroom Risotto", "Lentil Soup", "Beef Tacos",
		"Salmon Bowl", "Vegetable Stir Fry", "Tomato Pasta", "Pad Thai",
		"Shepherd's Pie", "Chocolate Cake", "Banana Bread", "Caesar Salad",
		"Pumpkin Soup", "Fish Pie", "Chickpea Stew",
	}
)

// Seeder creates demo data against a live database.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes seeded rows. Link tables first, then recipes, attributes,
// and users, so foreign keys never dangle.
func (s *Seeder) ClearAll() error {
	statements := []string{
		"DELETE FROM recipe_tags",
		"DELETE FROM recipe_ingrediants",
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to clear link table: %w", err)
		}
	}

	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.Recipe{}).Error; err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.Tag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.Ingredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	log.Println("✓ Database cleared")
	return nil
}

// EnsureSuperuser creates (or reuses) a staff superuser account with the
// given credentials. Safe to run repeatedly.
func (s *Seeder) EnsureSuperuser(email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if !existing.IsSuperuser || !existing.IsStaff {
			existing.IsSuperuser = true
			existing.IsStaff = true
			if err := s.db.Save(&existing).Error; err != nil {
				return nil, err
			}
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user, err := models.NewUser(email, "Admin", password)
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	log.Printf("✓ Superuser %s created", email)
	return user, nil
}

// SeedUsers creates n demo accounts, all sharing the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := &models.User{
			Email: models.NormalizeEmail(fmt.Sprintf("%s.%s%d@example.com",
				strings.ToLower(first), strings.ToLower(last), i)),
			Name:     fmt.Sprintf("%s %s", first, last),
			Password: string(hashed),
			IsActive: true,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedRecipes creates recipes for each user, each linked to a handful of
// that user's tags and ingredients through the same get-or-create path the
// API uses, so attribute rows are shared across recipes within a user.
func (s *Seeder) SeedRecipes(users []*models.User, perUser int) (int, error) {
	total := 0
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			recipe := s.buildRecipe(user)
			if err := s.db.Omit("Tags", "Ingredients").Create(recipe).Error; err != nil {
				return total, fmt.Errorf("failed to create recipe for user %d: %w", user.ID, err)
			}

			if err := s.linkTags(recipe, user, 1+s.rand.Intn(3)); err != nil {
				return total, err
			}
			if err := s.linkIngredients(recipe, user, 3+s.rand.Intn(5)); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

func (s *Seeder) buildRecipe(user *models.User) *models.Recipe {
	title := fmt.Sprintf("%s %s",
		dishStyles[s.rand.Intn(len(dishStyles))],
		dishBases[s.rand.Intn(len(dishBases))])

	price := decimal.NewFromFloat(float64(200+s.rand.Intn(2800)) / 100)

	recipe := &models.Recipe{
		UserID:      user.ID,
		Title:       title,
		Description: gofakeit.Paragraph(1, 3, 8, " "),
		TimeMinutes: 5 + s.rand.Intn(115),
		Price:       price,
		Link:        gofakeit.URL(),
	}

	// realistic created_at spread over the last 90 days
	daysBack := s.rand.Intn(90)
	recipe.CreatedAt = time.Now().Add(-time.Duration(daysBack) * 24 * time.Hour)
	return recipe
}

func (s *Seeder) linkTags(recipe *models.Recipe, user *models.User, n int) error {
	for _, name := range pickNames(s.rand, tagNames, n) {
		tag := models.Tag{UserID: user.ID, Name: name}
		if err := s.db.Where(&models.Tag{UserID: user.ID, Name: name}).
			FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("failed to get or create tag %q: %w", name, err)
		}
		if err := s.db.Model(recipe).Association("Tags").Append(&tag); err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}
	return nil
}

func (s *Seeder) linkIngredients(recipe *models.Recipe, user *models.User, n int) error {
	for _, name := range pickNames(s.rand, ingredientNames, n) {
		ingredient := models.Ingredient{UserID: user.ID, Name: name}
		if err := s.db.Where(&models.Ingredient{UserID: user.ID, Name: name}).
			FirstOrCreate(&ingredient).Error; err != nil {
			return fmt.Errorf("failed to get or create ingredient %q: %w", name, err)
		}
		if err := s.db.Model(recipe).Association("Ingredients").Append(&ingredient); err != nil {
			return fmt.Errorf("failed to link ingredient %q: %w", name, err)
		}
	}
	return nil
}

// pickNames returns n distinct names drawn from pool.
func pickNames(r *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := r.Perm(len(pool))[:n]
	names := make([]string, n)
	for i, j := range idx {
		names[i] = pool[j]
	}
	return names
}

// Seed populates the database with demo data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users, %d recipes each...",
		opts.NumUsers, opts.RecipesPerUser)

	s := NewSeeder(db)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if _, err := s.EnsureSuperuser("admin@example.com", "password123"); err != nil {
		return fmt.Errorf("failed to provision superuser: %w", err)
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	total, err := s.SeedRecipes(users, opts.RecipesPerUser)
	if err != nil {
		return fmt.Errorf("failed to create recipes: %w", err)
	}
	log.Printf("✓ %d recipes created", total)

	return nil
}
