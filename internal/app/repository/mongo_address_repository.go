package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/mapaddress-backend/internal/app/model"
	"github.com/ikkim/mapaddress-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type coordinatesDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// addressDocument is the stored shape of an address.
type addressDocument struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	UserID      string              `bson:"userId"`
	House       string              `bson:"house"`
	Apartment   string              `bson:"apartment"`
	Category    string              `bson:"category"`
	Coordinates coordinatesDocument `bson:"coordinates"`
	Favorite    bool                `bson:"favorite"`
}

func newAddressDocument(a *model.Address) addressDocument {
	return addressDocument{
		UserID:      a.UserID,
		House:       a.House,
		Apartment:   a.Apartment,
		Category:    string(a.Category),
		Coordinates: coordinatesDocument{Lat: a.Coordinates.Lat, Lng: a.Coordinates.Lng},
		Favorite:    a.Favorite,
	}
}

func (d addressDocument) toModel() model.Address {
	return model.Address{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		House:       d.House,
		Apartment:   d.Apartment,
		Category:    model.Category(d.Category),
		Coordinates: model.Coordinates{Lat: d.Coordinates.Lat, Lng: d.Coordinates.Lng},
		Favorite:    d.Favorite,
	}
}

type mongoAddressRepository struct {
	collection *mongo.Collection
}

// NewMongoAddressRepository stores addresses as documents in collection.
// Ids are 24-character hex ObjectIDs.
func NewMongoAddressRepository(collection *mongo.Collection) AddressRepository {
	return &mongoAddressRepository{collection: collection}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func (r *mongoAddressRepository) Create(ctx context.Context, address *model.Address) error {
	logger.Debug("Inserting address document", map[string]interface{}{
		"user_id": address.UserID,
	})

	res, err := r.collection.InsertOne(ctx, newAddressDocument(address))
	if err != nil {
		logger.Error("Failed to insert address document", err, map[string]interface{}{
			"user_id": address.UserID,
		})
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	address.ID = oid.Hex()
	return nil
}

func (r *mongoAddressRepository) CreateMany(ctx context.Context, addresses []model.Address) (int, error) {
	if len(addresses) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(addresses))
	for i := range addresses {
		docs = append(docs, newAddressDocument(&addresses[i]))
	}

	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		logger.Error("Failed to bulk insert address documents", err, map[string]interface{}{
			"count": len(addresses),
		})
		return 0, err
	}
	for i, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			addresses[i].ID = oid.Hex()
		}
	}
	return len(res.InsertedIDs), nil
}

func (r *mongoAddressRepository) FindAll(ctx context.Context) ([]model.Address, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		logger.Error("Failed to query address documents", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []addressDocument
	if err := cursor.All(ctx, &docs); err != nil {
		logger.Error("Failed to decode address documents", err)
		return nil, err
	}

	addresses := make([]model.Address, 0, len(docs))
	for _, doc := range docs {
		addresses = append(addresses, doc.toModel())
	}
	return addresses, nil
}

func (r *mongoAddressRepository) FindByID(ctx context.Context, id string) (*model.Address, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc addressDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	address := doc.toModel()
	return &address, nil
}

// setFields translates a patch into a $set document using stored field names.
func setFields(patch model.AddressPatch) bson.D {
	set := bson.D{}
	if patch.UserID != nil {
		set = append(set, bson.E{Key: "userId", Value: *patch.UserID})
	}
	if patch.House != nil {
		set = append(set, bson.E{Key: "house", Value: *patch.House})
	}
	if patch.Apartment != nil {
		set = append(set, bson.E{Key: "apartment", Value: *patch.Apartment})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: string(*patch.Category)})
	}
	if patch.Coordinates != nil {
		set = append(set, bson.E{Key: "coordinates", Value: coordinatesDocument{
			Lat: patch.Coordinates.Lat,
			Lng: patch.Coordinates.Lng,
		}})
	}
	if patch.Favorite != nil {
		set = append(set, bson.E{Key: "favorite", Value: *patch.Favorite})
	}
	return set
}

func (r *mongoAddressRepository) Update(ctx context.Context, id string, patch model.AddressPatch) (*model.Address, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	logger.Debug("Updating address document", map[string]interface{}{
		"address_id": id,
	})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc addressDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.D{{Key: "$set", Value: setFields(patch)}},
		opts,
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error("Failed to update address document", err, map[string]interface{}{
			"address_id": id,
		})
		return nil, err
	}

	address := doc.toModel()
	return &address, nil
}

func (r *mongoAddressRepository) Delete(ctx context.Context, id string) (*model.Address, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc addressDocument
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to delete address document", err, map[string]interface{}{
			"address_id": id,
		})
		return nil, err
	}

	address := doc.toModel()
	return &address, nil
}

func (r *mongoAddressRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
