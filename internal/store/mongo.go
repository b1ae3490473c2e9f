// internal/store/mongo.go
//
// MongoDB implementation of Store.
// The model is a single games collection of root Game documents plus a
// users collection. Preconditions ride in the update filters:
//   - player registration: {_id, creator: {$ne: caller}, players._id: {$ne: caller}}
//   - guess append:        {_id, players._id: caller} with a positional
//     $push into players.$.guesses
// MatchedCount/ModifiedCount from UpdateOne map directly onto
// UpdateResult.

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wordparty/server/internal/game"
)

const (
	databaseName        = "wordparty"
	gamesCollection     = "games"
	usersCollection     = "users"
	idField             = "_id"
	nameField           = "name"
	creatorField        = "creator"
	playersField        = "players"
	playersIDField      = "players._id"
	playersGuessesField = "players.$.guesses"
	notEqual            = "$ne"
	push                = "$push"
	defaultQueryPeriod  = 5 * time.Second
)

// Mongo is a Store backed by a MongoDB deployment.
type Mongo struct {
	games       *mongo.Collection
	users       *mongo.Collection
	queryPeriod time.Duration
}

// NewMongo connects to the deployment at url and returns a Store over
// the wordparty database.
func NewMongo(ctx context.Context, url string) (*Mongo, error) {
	clientOptions := options.Client().ApplyURI(url)
	ctx, cancel := context.WithTimeout(ctx, defaultQueryPeriod)
	defer cancel()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	database := client.Database(databaseName)
	m := Mongo{
		games:       database.Collection(gamesCollection),
		users:       database.Collection(usersCollection),
		queryPeriod: defaultQueryPeriod,
	}
	return &m, nil
}

// Setup creates the unique username index. Call once at startup.
func (m *Mongo) Setup(ctx context.Context) error {
	indexOptions := options.Index().SetUnique(true)
	model := mongo.IndexModel{
		Keys:    d(e(nameField, 1)),
		Options: indexOptions,
	}
	ctx, cancel := context.WithTimeout(ctx, m.queryPeriod)
	defer cancel()
	if _, err := m.users.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating unique username index: %w", err)
	}
	return nil
}

func (m *Mongo) InsertGame(ctx context.Context, g *game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, m.queryPeriod)
	defer cancel()
	if _, err := m.games.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}
	return nil
}

func (m *Mongo) FindGameByCreator(ctx context.Context, gameID, creatorID primitive.ObjectID) (*game.Game, error) {
	filter := d(e(idField, gameID), e(creatorField, creatorID))
	return m.findGame(ctx, filter)
}

func (m *Mongo) FindGameByPlayer(ctx context.Context, gameID, playerID primitive.ObjectID) (*game.Game, error) {
	filter := d(e(idField, gameID), e(playersIDField, playerID))
	return m.findGame(ctx, filter)
}

func (m *Mongo) findGame(ctx context.Context, filter bson.D) (*game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, m.queryPeriod)
	defer cancel()
	var g game.Game
	if err := m.games.FindOne(ctx, filter).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading game: %w", err)
	}
	return &g, nil
}

func (m *Mongo) AppendPlayerIfEligible(ctx context.Context, gameID primitive.ObjectID, p game.Player) (UpdateResult, error) {
	filter := d(
		e(idField, gameID),
		e(creatorField, d(e(notEqual, p.ID))),
		e(playersIDField, d(e(notEqual, p.ID))),
	)
	update := d(e(push, d(e(playersField, p))))
	return m.updateGame(ctx, filter, update, "appending player")
}

func (m *Mongo) AppendGuess(ctx context.Context, gameID, playerID primitive.ObjectID, gu game.Guess) (UpdateResult, error) {
	filter := d(e(idField, gameID), e(playersIDField, playerID))
	update := d(e(push, d(e(playersGuessesField, gu))))
	return m.updateGame(ctx, filter, update, "appending guess")
}

func (m *Mongo) updateGame(ctx context.Context, filter, update bson.D, op string) (UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.queryPeriod)
	defer cancel()
	res, err := m.games.UpdateOne(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return UpdateResult{
		Matched: res.MatchedCount == 1,
		Applied: res.ModifiedCount == 1,
	}, nil
}

func (m *Mongo) InsertUser(ctx context.Context, u User) error {
	ctx, cancel := context.WithTimeout(ctx, m.queryPeriod)
	defer cancel()
	if _, err := m.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (m *Mongo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return m.findUser(ctx, d(e(idField, id)))
}

func (m *Mongo) FindUserByName(ctx context.Context, name string) (*User, error) {
	return m.findUser(ctx, d(e(nameField, name)))
}

func (m *Mongo) findUser(ctx context.Context, filter bson.D) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, m.queryPeriod)
	defer cancel()
	var u User
	if err := m.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &u, nil
}

// d builds a bson document from elements.
func d(e ...bson.E) bson.D {
	return bson.D(e)
}

// e builds a single bson element.
func e(key string, value interface{}) bson.E {
	return bson.E{Key: key, Value: value}
}
