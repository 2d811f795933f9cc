package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/sanadlabs/sanad/internal/embed"
	serrors "github.com/sanadlabs/sanad/internal/errors"
)

// DefaultQdrantAddr is the default Qdrant gRPC endpoint.
const DefaultQdrantAddr = "localhost:6334"

// scrollPageSize bounds a single scroll request.
const scrollPageSize = 512

// qdrantIDNamespace derives deterministic point UUIDs from chunk ids.
// Qdrant point ids must be u64 or UUID, so the chunk id itself lives in
// the payload.
var qdrantIDNamespace = uuid.MustParse("8a6e0804-2bd0-4672-b79d-d97027f9071a")

// QdrantStore is a Store backed by a Qdrant collection over gRPC.
type QdrantStore struct {
	conn        *grpc.ClientConn
	ownsConn    bool
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	embedder    embed.Embedder
}

var _ Store = (*QdrantStore)(nil)

// QdrantConfig configures a Qdrant-backed store.
type QdrantConfig struct {
	// Addr is the gRPC endpoint (default: localhost:6334).
	Addr string

	// Collection is the collection name (required).
	Collection string
}

// NewQdrantStore connects to Qdrant and ensures the collection exists,
// creating it with cosine distance and the embedder's dimension.
func NewQdrantStore(ctx context.Context, cfg QdrantConfig, embedder embed.Embedder) (*QdrantStore, error) {
	if cfg.Collection == "" {
		return nil, serrors.ConfigError("qdrant collection name is required", nil)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultQdrantAddr
	}

	conn, err := grpc.Dial(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeStoreUnavailable, err)
	}

	s := &QdrantStore{
		conn:        conn,
		ownsConn:    true,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  cfg.Collection,
		embedder:    embedder,
	}
	if err := s.ensureCollection(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// ensureCollection creates the collection if missing, or warns when the
// existing dimension does not match the active embedder.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	list, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeStoreUnavailable, err)
	}

	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			s.warnOnDimensionMismatch(ctx)
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(s.embedder.Dimensions()),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeStoreWrite, err)
	}
	return nil
}

func (s *QdrantStore) warnOnDimensionMismatch(ctx context.Context) {
	info, err := s.collections.Get(ctx, &qdrantclient.GetCollectionInfoRequest{
		CollectionName: s.collection,
	})
	if err != nil {
		return
	}
	params := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return
	}
	if int(params.GetSize()) != s.embedder.Dimensions() {
		slog.Warn("collection dimension does not match embedder",
			"collection", s.collection,
			"collection_dims", params.GetSize(),
			"embedder_dims", s.embedder.Dimensions())
	}
}

// pointID derives the deterministic Qdrant point id for a chunk id.
func pointID(chunkID string) *qdrantclient.PointId {
	return &qdrantclient.PointId{
		PointIdOptions: &qdrantclient.PointId_Uuid{
			Uuid: uuid.NewSHA1(qdrantIDNamespace, []byte(chunkID)).String(),
		},
	}
}

// Upsert inserts or overwrites chunks by id.
func (s *QdrantStore) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeStoreWrite, err)
	}
	if len(vecs) != len(chunks) {
		return serrors.New(serrors.ErrCodeStoreWrite, "embedding count mismatch", nil)
	}

	points := make([]*qdrantclient.PointStruct, len(chunks))
	for i, c := range chunks {
		points[i] = &qdrantclient.PointStruct{
			Id: pointID(c.ID),
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: vecs[i]},
				},
			},
			Payload: map[string]*qdrantclient.Value{
				"id":            {Kind: &qdrantclient.Value_StringValue{StringValue: c.ID}},
				FieldText:       {Kind: &qdrantclient.Value_StringValue{StringValue: c.Text}},
				FieldSource:     {Kind: &qdrantclient.Value_StringValue{StringValue: c.Source}},
				FieldChunkIndex: {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(c.ChunkIndex)}},
				FieldScopeKey:   {Kind: &qdrantclient.Value_StringValue{StringValue: c.ScopeKey}},
			},
		}
	}

	_, err = s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeStoreWrite, err)
	}
	return nil
}

// QuerySemantic returns up to k chunks by cosine similarity.
func (s *QdrantStore) QuerySemantic(ctx context.Context, text string, k int) ([]SemanticResult, error) {
	if k <= 0 {
		return []SemanticResult{}, nil
	}

	qvec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeStoreQuery, err)
	}

	resp, err := s.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: s.collection,
		Vector:         qvec,
		Limit:          uint64(k),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeStoreQuery, err)
	}

	results := make([]SemanticResult, 0, len(resp.GetResult()))
	for _, p := range resp.GetResult() {
		results = append(results, SemanticResult{
			Chunk: chunkFromPayload(p.GetPayload()),
			// Cosine similarity score from Qdrant, converted to distance.
			Distance: 1 - p.GetScore(),
		})
	}
	return results, nil
}

// QueryExact returns up to limit chunks containing the substring. Qdrant's
// full-text match is token-based, so containment is re-verified client-side.
func (s *QdrantStore) QueryExact(ctx context.Context, substring string, limit int) ([]LexicalResult, error) {
	var filter *qdrantclient.Filter
	if strings.TrimSpace(substring) != "" {
		filter = &qdrantclient.Filter{
			Must: []*qdrantclient.Condition{{
				ConditionOneOf: &qdrantclient.Condition_Field{
					Field: &qdrantclient.FieldCondition{
						Key: FieldText,
						Match: &qdrantclient.Match{
							MatchValue: &qdrantclient.Match_Text{Text: substring},
						},
					},
				},
			}},
		}
	}

	chunks, err := s.scroll(ctx, filter)
	if err != nil {
		return nil, err
	}

	results := make([]LexicalResult, 0, len(chunks))
	for _, c := range chunks {
		if !strings.Contains(c.Text, substring) {
			continue
		}
		results = append(results, LexicalResult{Chunk: c})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// GetByMetadata returns chunks matching the filter.
func (s *QdrantStore) GetByMetadata(ctx context.Context, filter Filter) ([]Chunk, error) {
	return s.scroll(ctx, qdrantFilter(filter))
}

// DeleteByMetadata removes chunks matching the filter.
func (s *QdrantStore) DeleteByMetadata(ctx context.Context, filter Filter) (int, error) {
	// Qdrant's delete response does not report how many points matched,
	// so count them first.
	matched, err := s.scroll(ctx, qdrantFilter(filter))
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}

	qf := qdrantFilter(filter)
	if qf == nil {
		// An empty filter would match nothing in Qdrant; select by id.
		ids := make([]*qdrantclient.PointId, len(matched))
		for i, c := range matched {
			ids[i] = pointID(c.ID)
		}
		_, err = s.points.Delete(ctx, &qdrantclient.DeletePoints{
			CollectionName: s.collection,
			Points: &qdrantclient.PointsSelector{
				PointsSelectorOneOf: &qdrantclient.PointsSelector_Points{
					Points: &qdrantclient.PointsIdsList{Ids: ids},
				},
			},
		})
	} else {
		_, err = s.points.Delete(ctx, &qdrantclient.DeletePoints{
			CollectionName: s.collection,
			Points: &qdrantclient.PointsSelector{
				PointsSelectorOneOf: &qdrantclient.PointsSelector_Filter{Filter: qf},
			},
		})
	}
	if err != nil {
		return 0, serrors.Wrap(serrors.ErrCodeStoreWrite, err)
	}
	return len(matched), nil
}

// Count returns the number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	exact := true
	resp, err := s.points.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, serrors.Wrap(serrors.ErrCodeStoreQuery, err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	if s.ownsConn && s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// scroll pages through all points matching the filter.
func (s *QdrantStore) scroll(ctx context.Context, filter *qdrantclient.Filter) ([]Chunk, error) {
	var (
		chunks []Chunk
		offset *qdrantclient.PointId
	)
	limit := uint32(scrollPageSize)
	for {
		resp, err := s.points.Scroll(ctx, &qdrantclient.ScrollPoints{
			CollectionName: s.collection,
			Filter:         filter,
			Limit:          &limit,
			Offset:         offset,
			WithPayload: &qdrantclient.WithPayloadSelector{
				SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
			},
		})
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrCodeStoreQuery, err)
		}
		for _, p := range resp.GetResult() {
			chunks = append(chunks, chunkFromPayload(p.GetPayload()))
		}
		offset = resp.GetNextPageOffset()
		if offset == nil {
			break
		}
	}
	if chunks == nil {
		chunks = []Chunk{}
	}
	return chunks, nil
}

// qdrantFilter converts a metadata filter to Qdrant conditions. An empty
// filter yields nil (match all).
func qdrantFilter(f Filter) *qdrantclient.Filter {
	if f.Empty() {
		return nil
	}

	var must []*qdrantclient.Condition
	if f.Source != "" {
		must = append(must, keywordCondition(FieldSource, f.Source))
	}
	if f.ScopeKey != "" {
		must = append(must, keywordCondition(FieldScopeKey, f.ScopeKey))
	}
	if len(f.ChunkIndexes) > 0 {
		ints := make([]int64, len(f.ChunkIndexes))
		for i, idx := range f.ChunkIndexes {
			ints[i] = int64(idx)
		}
		must = append(must, &qdrantclient.Condition{
			ConditionOneOf: &qdrantclient.Condition_Field{
				Field: &qdrantclient.FieldCondition{
					Key: FieldChunkIndex,
					Match: &qdrantclient.Match{
						MatchValue: &qdrantclient.Match_Integers{
							Integers: &qdrantclient.RepeatedIntegers{Integers: ints},
						},
					},
				},
			},
		})
	}
	return &qdrantclient.Filter{Must: must}
}

func keywordCondition(key, value string) *qdrantclient.Condition {
	return &qdrantclient.Condition{
		ConditionOneOf: &qdrantclient.Condition_Field{
			Field: &qdrantclient.FieldCondition{
				Key: key,
				Match: &qdrantclient.Match{
					MatchValue: &qdrantclient.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

// chunkFromPayload reconstructs a chunk from point payload fields.
func chunkFromPayload(payload map[string]*qdrantclient.Value) Chunk {
	c := Chunk{}
	if v, ok := payload["id"]; ok {
		c.ID = v.GetStringValue()
	}
	if v, ok := payload[FieldText]; ok {
		c.Text = v.GetStringValue()
	}
	if v, ok := payload[FieldSource]; ok {
		c.Source = v.GetStringValue()
	}
	if v, ok := payload[FieldChunkIndex]; ok {
		c.ChunkIndex = int(v.GetIntegerValue())
	}
	if v, ok := payload[FieldScopeKey]; ok {
		c.ScopeKey = v.GetStringValue()
	}
	return c
}

// String describes the store for logs.
func (s *QdrantStore) String() string {
	return fmt.Sprintf("qdrant(%s)", s.collection)
}
