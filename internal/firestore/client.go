package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"huskers-schedule/internal/model"
)

const batchSize = 250 // Stay well under Firestore's 500 operation limit

// Client wraps the Firestore client for schedule publishing.
type Client struct {
	client     *firestore.Client
	collection string
}

// New creates a new Firestore client.
func New(ctx context.Context, projectID, collection string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Client{
		client:     client,
		collection: collection,
	}, nil
}

// Close closes the Firestore client.
func (c *Client) Close() error {
	return c.client.Close()
}

// ReplaceGames replaces every stored game for a source.
// It deletes all existing documents for the source, then writes the new ones.
func (c *Client) ReplaceGames(ctx context.Context, source string, games []model.Game, batchID string) error {
	coll := c.client.Collection(c.collection)

	if err := c.deleteGamesForSource(ctx, source); err != nil {
		return fmt.Errorf("deleting existing games: %w", err)
	}

	for i := 0; i < len(games); i += batchSize {
		end := min(i+batchSize, len(games))
		batch := c.client.Batch()

		for j, g := range games[i:end] {
			doc := coll.Doc(generateDocID(source, i+j, g))
			batch.Set(doc, gameToMap(g, source, batchID, i+j))
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing batch: %w", err)
		}
	}

	return nil
}

// deleteGamesForSource deletes all documents for a given source.
func (c *Client) deleteGamesForSource(ctx context.Context, source string) error {
	query := c.client.Collection(c.collection).Where("source", "==", source)

	for {
		iter := query.Limit(batchSize).Documents(ctx)
		batch := c.client.Batch()
		numDeleted := 0

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("iterating documents: %w", err)
			}
			batch.Delete(doc.Ref)
			numDeleted++
		}

		if numDeleted == 0 {
			return nil
		}

		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("committing delete batch: %w", err)
		}

		if numDeleted < batchSize {
			return nil
		}
	}
}

// GetGames retrieves the stored games of a source in schedule order.
func (c *Client) GetGames(ctx context.Context, source string) ([]model.Game, error) {
	type stored struct {
		seq  int64
		game model.Game
	}
	var docs []stored

	iter := c.client.Collection(c.collection).Where("source", "==", source).Documents(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating documents: %w", err)
		}

		data := doc.Data()
		g, err := mapToGame(data)
		if err != nil {
			return nil, fmt.Errorf("parsing document %s: %w", doc.Ref.ID, err)
		}
		seq, _ := data["seq"].(int64)
		docs = append(docs, stored{seq: seq, game: g})
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].seq < docs[j].seq })

	games := make([]model.Game, 0, len(docs))
	for _, d := range docs {
		games = append(games, d.game)
	}
	return games, nil
}

// CountBySource returns the number of stored games per source.
func (c *Client) CountBySource(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)

	iter := c.client.Collection(c.collection).Documents(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating documents: %w", err)
		}
		source, _ := doc.Data()["source"].(string)
		counts[source]++
	}

	return counts, nil
}

// generateDocID creates a document ID from the game's position in the
// schedule and the fields that identify it. The position keeps placeholder
// games with identical fields apart.
func generateDocID(source string, seq int, g model.Game) string {
	data := fmt.Sprintf("%s|%d|%s|%s|%s", source, seq, deref(g.DateText), deref(g.OpponentName), deref(g.Location))
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16]) // Use first 16 bytes for shorter ID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// gameToMap converts a Game to a Firestore document map. Nil fields are left out.
func gameToMap(g model.Game, source, batchID string, seq int) map[string]interface{} {
	m := map[string]interface{}{
		"source":   source,
		"batch_id": batchID,
		"seq":      int64(seq),
		"status":   string(g.Status),
	}

	optional := map[string]*string{
		"venue_type":          g.VenueType,
		"weekday":             g.Weekday,
		"date_text":           g.DateText,
		"kickoff":             g.Kickoff,
		"divider_text":        g.DividerText,
		"nebraska_logo_url":   g.NebraskaLogoURL,
		"opponent_logo_url":   g.OpponentLogoURL,
		"opponent_name":       g.OpponentName,
		"location":            g.Location,
		"tv_network_logo_url": g.TVNetworkLogoURL,
	}
	for k, v := range optional {
		if v != nil {
			m[k] = *v
		}
	}

	if g.Result != nil {
		r := map[string]interface{}{"outcome": g.Result.Outcome}
		if g.Result.Score != nil {
			r["score"] = *g.Result.Score
		}
		m["result"] = r
	}

	links := make([]interface{}, 0, len(g.Links))
	for _, l := range g.Links {
		links = append(links, map[string]interface{}{
			"title": l.Title,
			"href":  l.Href,
		})
	}
	m["links"] = links

	return m
}

// mapToGame converts a Firestore document map to a Game.
func mapToGame(m map[string]interface{}) (model.Game, error) {
	g := model.Game{Links: []model.Link{}}

	status, _ := m["status"].(string)
	switch model.Status(status) {
	case model.StatusTBD, model.StatusUpcoming, model.StatusFinal:
		g.Status = model.Status(status)
	default:
		return g, fmt.Errorf("unknown status %q", status)
	}

	str := func(key string) *string {
		if v, ok := m[key].(string); ok {
			return &v
		}
		return nil
	}
	g.VenueType = str("venue_type")
	g.Weekday = str("weekday")
	g.DateText = str("date_text")
	g.Kickoff = str("kickoff")
	g.DividerText = str("divider_text")
	g.NebraskaLogoURL = str("nebraska_logo_url")
	g.OpponentLogoURL = str("opponent_logo_url")
	g.OpponentName = str("opponent_name")
	g.Location = str("location")
	g.TVNetworkLogoURL = str("tv_network_logo_url")

	if r, ok := m["result"].(map[string]interface{}); ok {
		res := &model.Result{}
		res.Outcome, _ = r["outcome"].(string)
		if s, ok := r["score"].(string); ok {
			res.Score = &s
		}
		g.Result = res
	}

	if links, ok := m["links"].([]interface{}); ok {
		for i, raw := range links {
			lm, ok := raw.(map[string]interface{})
			if !ok {
				return g, fmt.Errorf("link %d: unexpected type %T", i, raw)
			}
			title, _ := lm["title"].(string)
			href, _ := lm["href"].(string)
			g.Links = append(g.Links, model.Link{Title: title, Href: href})
		}
	}

	return g, nil
}
