// Package redisstore implements the persistence contract on Redis. Ratings,
// parties and lobbies are JSON blobs under typed keys; each queue is a sorted
// set scored by join time so entries come back in wait order.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/colerae/matchbox/internal/domain"
	"github.com/colerae/matchbox/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// historyCap bounds the archived match list.
const historyCap = 10000

// Connect establishes a verified connection to Redis.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// NewRepositories bundles one client behind the repository interfaces.
func NewRepositories(client *redis.Client) *repository.Repositories {
	return &repository.Repositories{
		PlayerRating: NewPlayerRatingRepository(client),
		QueueEntry:   NewQueueEntryRepository(client),
		Party:        NewPartyRepository(client),
		Lobby:        NewLobbyRepository(client),
		MatchHistory: NewMatchHistoryRepository(client),
	}
}

func ratingKey(playerID uuid.UUID) string  { return fmt.Sprintf("player:%s:rating", playerID) }
func queueKey(queueName string) string     { return fmt.Sprintf("queue:%s", queueName) }
func queuePlayerKey(id uuid.UUID) string   { return fmt.Sprintf("queue:player:%s", id) }
func partyKey(partyID uuid.UUID) string    { return fmt.Sprintf("party:%s", partyID) }
func lobbyKey(lobbyID uuid.UUID) string    { return fmt.Sprintf("lobby:%s", lobbyID) }

const historyKey = "match:history"

type playerRatingRepository struct {
	client *redis.Client
}

func NewPlayerRatingRepository(client *redis.Client) *playerRatingRepository {
	return &playerRatingRepository{client: client}
}

func (r *playerRatingRepository) Save(ctx context.Context, playerID uuid.UUID, rating domain.Rating) error {
	data, err := json.Marshal(rating)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, ratingKey(playerID), data, 0).Err()
}

func (r *playerRatingRepository) Load(ctx context.Context, playerID uuid.UUID) (*domain.Rating, error) {
	data, err := r.client.Get(ctx, ratingKey(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rating domain.Rating
	if err := json.Unmarshal(data, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// queuePointer lets DeleteByPlayer find the sorted-set member for any player
// in an entry.
type queuePointer struct {
	QueueName string `json:"queueName"`
	Member    string `json:"member"`
}

type queueEntryRepository struct {
	client *redis.Client
}

func NewQueueEntryRepository(client *redis.Client) *queueEntryRepository {
	return &queueEntryRepository{client: client}
}

func (r *queueEntryRepository) Save(ctx context.Context, entry domain.QueueEntry) error {
	member, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, queueKey(entry.QueueName), redis.Z{
		Score:  float64(entry.JoinedAt.UnixMicro()),
		Member: string(member),
	})

	pointer, err := json.Marshal(queuePointer{QueueName: entry.QueueName, Member: string(member)})
	if err != nil {
		return err
	}
	for _, playerID := range entry.PlayerIDs {
		pipe.Set(ctx, queuePlayerKey(playerID), pointer, 0)
	}

	_, err = pipe.Exec(ctx)
	return err
}

func (r *queueEntryRepository) LoadByQueue(ctx context.Context, queueName string) ([]domain.QueueEntry, error) {
	members, err := r.client.ZRange(ctx, queueKey(queueName), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.QueueEntry, 0, len(members))
	for _, member := range members {
		var entry domain.QueueEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *queueEntryRepository) DeleteByPlayer(ctx context.Context, playerID uuid.UUID) error {
	data, err := r.client.Get(ctx, queuePlayerKey(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	var pointer queuePointer
	if err := json.Unmarshal(data, &pointer); err != nil {
		return err
	}
	var entry domain.QueueEntry
	if err := json.Unmarshal([]byte(pointer.Member), &entry); err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.ZRem(ctx, queueKey(pointer.QueueName), pointer.Member)
	for _, id := range entry.PlayerIDs {
		pipe.Del(ctx, queuePlayerKey(id))
	}
	_, err = pipe.Exec(ctx)
	return err
}

type partyRepository struct {
	client *redis.Client
}

func NewPartyRepository(client *redis.Client) *partyRepository {
	return &partyRepository{client: client}
}

func (r *partyRepository) Save(ctx context.Context, party domain.Party) error {
	data, err := json.Marshal(party)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, partyKey(party.ID), data, 0).Err()
}

func (r *partyRepository) Load(ctx context.Context, partyID uuid.UUID) (*domain.Party, error) {
	data, err := r.client.Get(ctx, partyKey(partyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var party domain.Party
	if err := json.Unmarshal(data, &party); err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) Delete(ctx context.Context, partyID uuid.UUID) error {
	return r.client.Del(ctx, partyKey(partyID)).Err()
}

type lobbyRepository struct {
	client *redis.Client
}

func NewLobbyRepository(client *redis.Client) *lobbyRepository {
	return &lobbyRepository{client: client}
}

func (r *lobbyRepository) Save(ctx context.Context, lobby domain.Lobby) error {
	data, err := json.Marshal(lobby)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, lobbyKey(lobby.ID), data, 0).Err()
}

func (r *lobbyRepository) Load(ctx context.Context, lobbyID uuid.UUID) (*domain.Lobby, error) {
	data, err := r.client.Get(ctx, lobbyKey(lobbyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lobby domain.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, err
	}
	return &lobby, nil
}

func (r *lobbyRepository) Delete(ctx context.Context, lobbyID uuid.UUID) error {
	return r.client.Del(ctx, lobbyKey(lobbyID)).Err()
}

type matchHistoryRepository struct {
	client *redis.Client
}

func NewMatchHistoryRepository(client *redis.Client) *matchHistoryRepository {
	return &matchHistoryRepository{client: client}
}

func (r *matchHistoryRepository) SaveMatchResult(ctx context.Context, lobby domain.Lobby) error {
	data, err := json.Marshal(lobby)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, historyCap-1)
	_, err = pipe.Exec(ctx)
	return err
}
