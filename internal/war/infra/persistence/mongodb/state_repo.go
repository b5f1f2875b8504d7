package mongodb

import (
	"context"
	"errors"
	"sort"

	"WarSim/internal/war/entity"
	"WarSim/internal/war/errs"
	"WarSim/internal/war/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"
)

const (
	nationCollectionName   = "nation"
	countryCollectionName  = "country"
	allianceCollectionName = "alliance"
	battleCollectionName   = "battle"
)

const (
	OpLoad          = "repo.war.Load"
	OpSave          = "repo.war.Save"
	OpEnsureIndexes = "repo.war.EnsureIndexes"
)

type StateRepo struct {
	nations   *mongo.Collection
	countries *mongo.Collection
	alliances *mongo.Collection
	battles   *mongo.Collection
}

func NewStateRepo(db *mongo.Database) *StateRepo {
	if db == nil {
		return &StateRepo{}
	}
	return &StateRepo{
		nations:   db.Collection(nationCollectionName),
		countries: db.Collection(countryCollectionName),
		alliances: db.Collection(allianceCollectionName),
		battles:   db.Collection(battleCollectionName),
	}
}

var errNilCollection = errors.New("mongodb war collections are nil")

func (r *StateRepo) ready() bool {
	return r != nil && r.nations != nil && r.countries != nil && r.alliances != nil && r.battles != nil
}

// EnsureIndexes 创建排行与战报查询用到的索引，启动时调用一次。
func (r *StateRepo) EnsureIndexes(ctx context.Context) error {
	if !r.ready() {
		return errs.Wrap(OpEnsureIndexes, errs.KindInfra, errNilCollection, nil)
	}
	if _, err := r.nations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "scope", Value: 1}, {Key: "player", Value: 1}}},
		{Keys: bson.D{{Key: "alliance", Value: 1}}},
	}); err != nil {
		return errs.Wrap(OpEnsureIndexes, errs.KindInfra, err, map[string]any{"collection": nationCollectionName})
	}
	if _, err := r.battles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "scope", Value: 1}, {Key: "at", Value: -1}},
	}); err != nil {
		return errs.Wrap(OpEnsureIndexes, errs.KindInfra, err, map[string]any{"collection": battleCollectionName})
	}
	return nil
}

// Load 并发读取四个集合；任一失败整体失败。
func (r *StateRepo) Load(ctx context.Context) (*entity.WarState, error) {
	if !r.ready() {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, errNilCollection, nil)
	}

	var (
		nations   []model.NationDoc
		countries []model.CountryDoc
		alliances []model.AllianceDoc
		battles   []model.BattleDoc
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return findAll(gctx, r.nations, &nations) })
	g.Go(func() error { return findAll(gctx, r.countries, &countries) })
	g.Go(func() error { return findAll(gctx, r.alliances, &alliances) })
	g.Go(func() error { return findAll(gctx, r.battles, &battles) })
	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, nil)
	}

	state := &entity.WarState{
		Nations:   make([]entity.Nation, 0, len(nations)),
		Countries: make([]entity.Country, 0, len(countries)),
		Alliances: make([]entity.Alliance, 0, len(alliances)),
		Battles:   make([]entity.BattleRecord, 0, len(battles)),
	}
	for _, d := range nations {
		state.Nations = append(state.Nations, model.DocToNation(d))
	}
	for _, d := range countries {
		state.Countries = append(state.Countries, model.DocToCountry(d))
	}
	for _, d := range alliances {
		state.Alliances = append(state.Alliances, model.DocToAlliance(d))
	}
	for _, d := range battles {
		state.Battles = append(state.Battles, model.DocToBattle(d))
	}
	sort.Slice(state.Battles, func(i, j int) bool { return state.Battles[i].ID < state.Battles[j].ID })
	return state, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, out *[]T) error {
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// Save 按集合批量 upsert；战报同样按 _id upsert，失败重试不会重复插入。
func (r *StateRepo) Save(ctx context.Context, s *entity.WarStateSnap) error {
	if s.Empty() {
		return nil
	}
	if !r.ready() {
		return errs.Wrap(OpSave, errs.KindInfra, errNilCollection, nil)
	}
	meta := map[string]any{"version": s.Version}

	if len(s.Nations) > 0 {
		models := make([]mongo.WriteModel, 0, len(s.Nations))
		for _, n := range s.Nations {
			doc := model.NationToDoc(n)
			models = append(models, upsert(doc.ID, doc))
		}
		if err := bulk(ctx, r.nations, models); err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, withColl(meta, nationCollectionName))
		}
	}
	if len(s.Countries) > 0 {
		models := make([]mongo.WriteModel, 0, len(s.Countries))
		for _, c := range s.Countries {
			doc := model.CountryToDoc(c)
			models = append(models, upsert(doc.ID, doc))
		}
		if err := bulk(ctx, r.countries, models); err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, withColl(meta, countryCollectionName))
		}
	}
	if len(s.Alliances) > 0 {
		models := make([]mongo.WriteModel, 0, len(s.Alliances))
		for _, a := range s.Alliances {
			doc := model.AllianceToDoc(a)
			models = append(models, upsert(doc.Name, doc))
		}
		if err := bulk(ctx, r.alliances, models); err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, withColl(meta, allianceCollectionName))
		}
	}
	if len(s.DeletedAlliances) > 0 {
		_, err := r.alliances.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": s.DeletedAlliances}})
		if err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, withColl(meta, allianceCollectionName))
		}
	}
	if len(s.Battles) > 0 {
		models := make([]mongo.WriteModel, 0, len(s.Battles))
		for _, b := range s.Battles {
			doc := model.BattleToDoc(b)
			models = append(models, upsert(doc.ID, doc))
		}
		if err := bulk(ctx, r.battles, models); err != nil {
			return errs.Wrap(OpSave, errs.KindInfra, err, withColl(meta, battleCollectionName))
		}
	}
	return nil
}

func upsert(id any, doc any) mongo.WriteModel {
	return mongo.NewReplaceOneModel().
		SetFilter(bson.M{"_id": id}).
		SetReplacement(doc).
		SetUpsert(true)
}

func bulk(ctx context.Context, coll *mongo.Collection, models []mongo.WriteModel) error {
	_, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func withColl(meta map[string]any, coll string) map[string]any {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out["collection"] = coll
	return out
}
