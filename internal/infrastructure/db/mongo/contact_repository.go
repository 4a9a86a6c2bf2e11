package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

const contactsCollection = "contacts"

type ContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{coll: db.Collection(contactsCollection)}
}

type mongoContact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	FirstName   string             `bson:"first_name"`
	LastName    string             `bson:"last_name"`
	Email       string             `bson:"email"`
	PhoneNumber string             `bson:"phone_number"`
	Birthday    time.Time          `bson:"birthday"`
	Note        string             `bson:"note,omitempty"`
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoContact(contact))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactEmailTaken
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	created := *contact
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, contactID, userID string) (*domain.Contact, error) {
	filter, err := ownedByID(contactID, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoContact
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ContactRepository) List(ctx context.Context, filter ports.ListContactsFilter) ([]*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSkip(filter.Skip).
		SetLimit(filter.Limit).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.M{"user_id": filter.UserID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return decodeContacts(ctx, cur)
}

func (r *ContactRepository) Update(ctx context.Context, contactID, userID string, contact *domain.Contact) (*domain.Contact, error) {
	filter, err := ownedByID(contactID, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"first_name":   contact.FirstName,
		"last_name":    contact.LastName,
		"email":        contact.Email,
		"phone_number": contact.PhoneNumber,
		"birthday":     contact.Birthday,
		"note":         contact.Note,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mc mongoContact
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactEmailTaken
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ContactRepository) Delete(ctx context.Context, contactID, userID string) (*domain.Contact, error) {
	filter, err := ownedByID(contactID, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoContact
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	return mc.toDomain(), nil
}

// Search matches the query case-insensitively as a substring of first name,
// last name, or email.
func (r *ContactRepository) Search(ctx context.Context, filter ports.SearchContactsFilter) ([]*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
	query := bson.M{
		"user_id": filter.UserID,
		"$or": bson.A{
			bson.M{"first_name": pattern},
			bson.M{"last_name": pattern},
			bson.M{"email": pattern},
		},
	}

	opts := options.Find().
		SetSkip(filter.Skip).
		SetLimit(filter.Limit).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return decodeContacts(ctx, cur)
}

// UpcomingBirthdays compares stored birthdays by calendar month and day,
// ignoring the birth year. A window crossing a month (or year) boundary
// splits into two branches.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, userID string, window ports.BirthdayWindow) ([]*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fromMonth, fromDay := int(window.From.Month()), window.From.Day()
	toMonth, toDay := int(window.To.Month()), window.To.Day()

	month := bson.M{"$month": "$birthday"}
	day := bson.M{"$dayOfMonth": "$birthday"}

	var expr bson.M
	if fromMonth == toMonth {
		expr = bson.M{"$and": bson.A{
			bson.M{"$eq": bson.A{month, fromMonth}},
			bson.M{"$gte": bson.A{day, fromDay}},
			bson.M{"$lte": bson.A{day, toDay}},
		}}
	} else {
		expr = bson.M{"$or": bson.A{
			bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{month, fromMonth}},
				bson.M{"$gte": bson.A{day, fromDay}},
			}},
			bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{month, toMonth}},
				bson.M{"$lte": bson.A{day, toDay}},
			}},
		}}
	}

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID, "$expr": expr})
	if err != nil {
		return nil, fmt.Errorf("upcoming birthdays: %w", err)
	}
	return decodeContacts(ctx, cur)
}

// EnsureIndexes creates the indexes on the contacts collection.
func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// ownedByID builds the owner-scoped filter. A malformed id cannot match any
// document, so it is reported as not found.
func ownedByID(contactID, userID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(contactID)
	if err != nil {
		return nil, domain.ErrContactNotFound
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

func decodeContacts(ctx context.Context, cur *mongo.Cursor) ([]*domain.Contact, error) {
	defer cur.Close(ctx)

	contacts := make([]*domain.Contact, 0)
	for cur.Next(ctx) {
		var mc mongoContact
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		contacts = append(contacts, mc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func toMongoContact(c *domain.Contact) mongoContact {
	return mongoContact{
		UserID:      c.UserID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Birthday:    c.Birthday,
		Note:        c.Note,
	}
}

func (mc mongoContact) toDomain() *domain.Contact {
	return &domain.Contact{
		ID:          mc.ID.Hex(),
		UserID:      mc.UserID,
		FirstName:   mc.FirstName,
		LastName:    mc.LastName,
		Email:       mc.Email,
		PhoneNumber: mc.PhoneNumber,
		Birthday:    mc.Birthday.UTC(),
		Note:        mc.Note,
	}
}
