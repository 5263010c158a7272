// Command seed populates a development database with an admin account,
// a handful of guest accounts, the table directory and a month of
// plausible reservations.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tablebook/restaurant-reservation/internal/config"
	"github.com/tablebook/restaurant-reservation/internal/database"
	"github.com/tablebook/restaurant-reservation/internal/model"
	"github.com/tablebook/restaurant-reservation/internal/repository"
	"github.com/tablebook/restaurant-reservation/internal/utils"
)

var tableCapacities = []uint32{2, 2, 4, 4, 6, 8}

var guestNames = []struct{ first, last string }{
	{"Jana", "Novakova"},
	{"Peter", "Horvath"},
	{"Lucia", "Kovacova"},
	{"Martin", "Szabo"},
	{"Eva", "Tothova"},
	{"Tomas", "Varga"},
	{"Katarina", "Molnarova"},
	{"Michal", "Balog"},
	{"Zuzana", "Lukacova"},
	{"Juraj", "Polak"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var existing int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&existing); err != nil {
		log.Fatalf("seed: count users: %v", err)
	}
	if existing > 0 {
		log.Fatalf("seed: database already has %d users; refusing to seed", existing)
	}

	users := repository.NewUserRepo(db)
	tables := repository.NewTableRepo(db)

	adminID := seedUser(ctx, users, cfg.BcryptCost, "Restaurant", "Admin", "admin@example.com", "+421910645309", "password", model.RoleAdmin)
	log.Printf("seed: admin user #%d (admin@example.com / password)", adminID)

	guestIDs := make([]uint64, 0, len(guestNames))
	for i, n := range guestNames {
		email := fmt.Sprintf("%s.%s@example.com", strings.ToLower(n.first), strings.ToLower(n.last))
		phone := fmt.Sprintf("+42191%07d", 1000000+i)
		guestIDs = append(guestIDs, seedUser(ctx, users, cfg.BcryptCost, n.first, n.last, email, phone, "password", model.RoleGuest))
	}
	log.Printf("seed: %d guest users", len(guestIDs))

	tableIDs := make([]uint64, 0, len(tableCapacities))
	for _, seats := range tableCapacities {
		id, err := tables.Create(ctx, seats)
		if err != nil {
			log.Fatalf("seed: create table: %v", err)
		}
		tableIDs = append(tableIDs, id)
	}
	log.Printf("seed: %d tables", len(tableIDs))

	n := seedReservations(ctx, db, guestIDs, tableIDs)
	log.Printf("seed: %d reservations over the coming month", n)
}

func seedUser(ctx context.Context, users *repository.UserRepo, cost int, first, last, email, phone, password, role string) uint64 {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}
	id, err := users.Create(ctx, &first, last, &email, phone, &hash, role)
	if err != nil {
		log.Fatalf("seed: create user %s: %v", email, err)
	}
	return id
}

// seedReservations books random guests into random tables over the
// next month.  Start times fall on half-hour marks between 11:00 and
// 20:00 on working days, so every slot ends by 22:30.  Conflicting
// picks for the same table and slot are skipped rather than retried.
func seedReservations(ctx context.Context, db *sql.DB, guestIDs, tableIDs []uint64) int {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	type slotKey struct {
		table uint64
		start time.Time
	}
	taken := make(map[slotKey]struct{})

	const insert = `INSERT INTO reservations
	                (user_id, table_id, starts_at, ends_at, guests_count)
	                VALUES (?, ?, ?, ?, ?)`

	count := 0
	day := time.Now().AddDate(0, 0, 1)
	for i := 0; i < 30; i++ {
		d := day.AddDate(0, 0, i)
		if d.Weekday() == time.Sunday {
			continue
		}
		perDay := 3 + rng.Intn(5)
		for j := 0; j < perDay; j++ {
			halfHours := rng.Intn(19) // 11:00 .. 20:00 inclusive
			start := time.Date(d.Year(), d.Month(), d.Day(), 11, 0, 0, 0, time.Local).
				Add(time.Duration(halfHours) * 30 * time.Minute)
			table := tableIDs[rng.Intn(len(tableIDs))]
			key := slotKey{table: table, start: start}
			if _, dup := taken[key]; dup {
				continue
			}
			taken[key] = struct{}{}

			guest := guestIDs[rng.Intn(len(guestIDs))]
			guests := uint32(1 + rng.Intn(4))
			end := start.Add(model.ReservationDuration)
			if _, err := db.ExecContext(ctx, insert, guest, table, start.UTC(), end.UTC(), guests); err != nil {
				log.Fatalf("seed: insert reservation: %v", err)
			}
			count++
		}
	}
	return count
}
