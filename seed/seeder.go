package seed

import (
	"log"

	"github.com/DenisSivko/hw05-final/models"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username: "leo",
		Email:    "leo@example.com",
		Password: "password",
	},
	{
		Username: "oliver",
		Email:    "oliver@example.com",
		Password: "password",
	},
}

var groups = []models.Group{
	{
		Title:       "Cats",
		Slug:        "cats",
		Description: "Posts about cats",
	},
	{
		Title:       "Dogs",
		Slug:        "dogs",
		Description: "Posts about dogs",
	},
}

var posts = []models.Post{
	{
		Text: "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
	},
	{
		Text: "Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
	},
}

// Load drops and recreates the demo data set. Development only.
func Load(db *gorm.DB) {
	if err := db.Migrator().DropTable(
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	); err != nil {
		log.Fatalf("cannot drop tables: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	); err != nil {
		log.Fatalf("cannot migrate tables: %v", err)
	}

	for i := range groups {
		if err := db.Create(&groups[i]).Error; err != nil {
			log.Fatalf("cannot seed groups table: %v", err)
		}
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatalf("cannot seed users table: %v", err)
		}

		posts[i].AuthorID = users[i].ID
		posts[i].GroupID = &groups[i].ID
		if err := db.Create(&posts[i]).Error; err != nil {
			log.Fatalf("cannot seed posts table: %v", err)
		}
	}
}
