package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

const (
	collectionTasks    = "tasks"
	collectionCounters = "counters"
	taskCounterID      = "tasks"
)

// listSort mirrors the relational ordering. has_deadline is stored so that
// undated tasks can sort last.
var listSort = bson.D{
	{Key: "is_finished", Value: 1},
	{Key: "has_deadline", Value: -1},
	{Key: "deadline", Value: 1},
	{Key: "_id", Value: 1},
}

type TaskRepository struct {
	tasks    *mongo.Collection
	counters *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		tasks:    db.Collection(collectionTasks),
		counters: db.Collection(collectionCounters),
	}
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

type taskDocument struct {
	ID          int64      `bson:"_id"`
	Name        string     `bson:"name"`
	Description string     `bson:"description"`
	Priority    int        `bson:"priority"`
	Deadline    *time.Time `bson:"deadline"`
	HasDeadline bool       `bson:"has_deadline"`
	IsFinished  bool       `bson:"is_finished"`
	CreatedAt   time.Time  `bson:"created_at"`
	OwnerID     string     `bson:"owner_id"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (r *TaskRepository) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.tasks.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(listSort))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := make([]*domain.Task, 0)
	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64, ownerID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDocument
	err := r.tasks.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	doc := toTaskDocument(t)
	doc.ID = id
	if _, err := r.tasks.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = id
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toTaskDocument(t)
	update := bson.M{"$set": bson.M{
		"name":         doc.Name,
		"description":  doc.Description,
		"priority":     doc.Priority,
		"deadline":     doc.Deadline,
		"has_deadline": doc.HasDeadline,
		"is_finished":  doc.IsFinished,
	}}

	var updated taskDocument
	err := r.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": t.ID, "owner_id": t.OwnerID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// EnsureIndexes creates the owner listing index.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	keys := bson.D{{Key: "owner_id", Value: 1}}
	keys = append(keys, listSort...)
	if _, err := r.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys}); err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

// nextID atomically increments the task sequence and returns the new value.
func (r *TaskRepository) nextID(ctx context.Context) (int64, error) {
	var counter counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": taskCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next task id: %w", err)
	}
	return counter.Seq, nil
}

func toTaskDocument(t *domain.Task) taskDocument {
	doc := taskDocument{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Priority:    int(t.Priority),
		IsFinished:  t.IsFinished,
		CreatedAt:   t.CreatedAt.UTC(),
		OwnerID:     t.OwnerID,
	}
	if t.Deadline != nil {
		d := t.Deadline.UTC()
		doc.Deadline = &d
		doc.HasDeadline = true
	}
	return doc
}

func (d taskDocument) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Priority:    domain.Priority(d.Priority),
		IsFinished:  d.IsFinished,
		CreatedAt:   d.CreatedAt.UTC(),
		OwnerID:     d.OwnerID,
	}
	if d.Deadline != nil {
		dl := d.Deadline.UTC()
		t.Deadline = &dl
	}
	return t
}
