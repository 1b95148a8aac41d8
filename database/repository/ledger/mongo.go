package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"concierge/config"
	"concierge/database"
	"concierge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLedgerRepo implements Repository over a "bookings" collection.
type MongoLedgerRepo struct {
	bookingColl *mongo.Collection
}

func NewMongoLedgerRepo() *MongoLedgerRepo {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoLedgerRepo{bookingColl: db.Collection("bookings")}
}

// CreateBooking inserts a new booking document.
func (repo *MongoLedgerRepo) CreateBooking(booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := repo.bookingColl.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// UpdateBookingStatus sets the status of an existing booking document.
func (repo *MongoLedgerRepo) UpdateBookingStatus(bookingID, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{"status": status}}
	_, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", bookingID, err)
	}
	return nil
}

// ListConfirmed returns all bookings whose status is Confirmed.
func (repo *MongoLedgerRepo) ListConfirmed() ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := repo.bookingColl.Find(ctx, bson.M{"status": models.BookingConfirmed})
	if err != nil {
		return nil, fmt.Errorf("error listing confirmed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding confirmed bookings: %w", err)
	}
	return bookings, nil
}
