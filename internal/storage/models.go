package storage

import (
	"time"

	"github.com/google/uuid"
)

// Container is a named partition of the object store ("bucket").
type Container struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Public    bool      `gorm:"default:false" json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

// Object is the catalog row for one stored blob. Bytes live on the
// blob store under <container>/<path>; this row carries access policy
// and content metadata.
type Object struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContainerName string    `gorm:"size:100;not null;uniqueIndex:idx_objects_container_path" json:"container"`
	Path          string    `gorm:"size:500;not null;uniqueIndex:idx_objects_container_path" json:"path"`
	ContentType   string    `gorm:"size:100" json:"content_type"`
	CacheControl  string    `gorm:"size:50" json:"cache_control"`
	Size          int64     `json:"size"`
	Public        bool      `gorm:"default:false" json:"public"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
