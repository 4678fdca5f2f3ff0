package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/address-normalizer/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore store trên MongoDB (collection address_master, address_detail)
type MongoStore struct {
	master *mongo.Collection
	detail *mongo.Collection
	logger *zap.Logger
}

// NewMongoStore tạo MongoStore và đảm bảo index
func NewMongoStore(db *mongo.Database, logger *zap.Logger) (*MongoStore, error) {
	s := &MongoStore{
		master: db.Collection("address_master"),
		detail: db.Collection("address_detail"),
		logger: logger,
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "mgmt_no", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{bson.E{Key: "id", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "road_nm", Value: 1}, bson.E{Key: "buld_mainsn", Value: 1}, bson.E{Key: "buld_subsn", Value: 1}}},
		{Keys: bson.D{bson.E{Key: "buld_nm", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.master.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Không thể tạo indexes cho address_master", zap.Error(err))
	}
	if _, err := s.detail.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{bson.E{Key: "mgmt_no", Value: 1}}}); err != nil {
		logger.Warn("Không thể tạo indexes cho address_detail", zap.Error(err))
	}
	return s, nil
}

// Find implements Store
func (s *MongoStore) Find(ctx context.Context, filter Filter, limit int) ([]models.AddressMaster, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.master.Find(ctx, ToBSON(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("lỗi query address_master: %w", err)
	}
	var out []models.AddressMaster
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("lỗi decode address_master: %w", err)
	}
	return out, nil
}

// First implements Store
func (s *MongoStore) First(ctx context.Context, filter Filter) (*models.AddressMaster, error) {
	opts := options.FindOne().SetSort(bson.D{bson.E{Key: "id", Value: 1}})

	var m models.AddressMaster
	err := s.master.FindOne(ctx, ToBSON(filter), opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lỗi query address_master: %w", err)
	}
	return &m, nil
}

// Details implements Store
func (s *MongoStore) Details(ctx context.Context, mgmtNo string) ([]models.AddressDetail, error) {
	cur, err := s.detail.Find(ctx, bson.M{"mgmt_no": mgmtNo})
	if err != nil {
		return nil, fmt.Errorf("lỗi query address_detail: %w", err)
	}
	var out []models.AddressDetail
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("lỗi decode address_detail: %w", err)
	}
	return out, nil
}

// Count implements Store
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.master.EstimatedDocumentCount(ctx)
}

// Import ghi đè dữ liệu tham chiếu. Chỉ dùng bởi lệnh seed, không dùng khi đang phục vụ.
func (s *MongoStore) Import(ctx context.Context, records []models.AddressMaster, details []models.AddressDetail) error {
	if _, err := s.master.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("lỗi xóa address_master: %w", err)
	}
	if _, err := s.detail.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("lỗi xóa address_detail: %w", err)
	}

	const batchSize = 1000
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))
		docs := make([]interface{}, 0, end-i)
		for _, r := range records[i:end] {
			docs = append(docs, r)
		}
		if _, err := s.master.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("lỗi insert address_master batch %d: %w", i/batchSize, err)
		}
	}

	if len(details) > 0 {
		docs := make([]interface{}, 0, len(details))
		for _, d := range details {
			docs = append(docs, d)
		}
		if _, err := s.detail.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("lỗi insert address_detail: %w", err)
		}
	}

	s.logger.Info("Đã import dữ liệu tham chiếu vào MongoDB",
		zap.Int("addresses", len(records)),
		zap.Int("details", len(details)))
	return nil
}

// ToBSON dịch filter sang truy vấn MongoDB
func ToBSON(filter Filter) bson.M {
	if len(filter) == 0 {
		return bson.M{}
	}
	and := make(bson.A, 0, len(filter))
	for _, p := range filter {
		and = append(and, predicateBSON(p))
	}
	return bson.M{"$and": and}
}

func predicateBSON(p Predicate) bson.M {
	field := string(p.Field)
	if p.Op == OpIntEqual {
		return bson.M{field: p.Number}
	}

	ors := make(bson.A, 0, len(p.Values))
	for _, v := range p.Values {
		pattern := "^" + regexp.QuoteMeta(v) + "$"
		if p.Op == OpLike {
			pattern = likeToRegex(v)
		}

		switch {
		case p.IgnoreSpaces:
			ors = append(ors, bson.M{"$expr": bson.M{"$regexMatch": bson.M{
				"input": bson.M{"$replaceAll": bson.M{"input": "$" + field, "find": " ", "replacement": ""}},
				"regex": pattern,
			}}})
		case p.Op == OpEqual:
			ors = append(ors, bson.M{field: v})
		default:
			ors = append(ors, bson.M{field: bson.M{"$regex": pattern}})
		}
	}
	switch len(ors) {
	case 0:
		return bson.M{field: bson.M{"$in": bson.A{}}}
	case 1:
		return ors[0].(bson.M)
	}
	return bson.M{"$or": ors}
}

// likeToRegex "%a%b" → "^.*a.*b$"
func likeToRegex(pattern string) string {
	parts := strings.Split(pattern, "%")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}
