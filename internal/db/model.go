// nolint
//
//lint:file-ignore U1000 ignore unused code, it's generated
package db

import (
	"time"
)

var Columns = struct {
	GooseDbVersion struct {
		ID, VersionID, IsApplied, Tstamp string
	}
	Story struct {
		ID, Title, Content, Image, Author, Website, WebsiteButtonText, TagIDs, CreatedAt, UpdatedAt string
	}
	Tag struct {
		ID, Name, Color, CreatedAt string
	}
}{
	GooseDbVersion: struct {
		ID, VersionID, IsApplied, Tstamp string
	}{
		ID:        "id",
		VersionID: "version_id",
		IsApplied: "is_applied",
		Tstamp:    "tstamp",
	},
	Story: struct {
		ID, Title, Content, Image, Author, Website, WebsiteButtonText, TagIDs, CreatedAt, UpdatedAt string
	}{
		ID:                "storyId",
		Title:             "title",
		Content:           "content",
		Image:             "image",
		Author:            "author",
		Website:           "website",
		WebsiteButtonText: "websiteButtonText",
		TagIDs:            "tagIds",
		CreatedAt:         "createdAt",
		UpdatedAt:         "updatedAt",
	},
	Tag: struct {
		ID, Name, Color, CreatedAt string
	}{
		ID:        "tagId",
		Name:      "name",
		Color:     "color",
		CreatedAt: "createdAt",
	},
}

var Tables = struct {
	GooseDbVersion struct {
		Name, Alias string
	}
	Story struct {
		Name, Alias string
	}
	Tag struct {
		Name, Alias string
	}
}{
	GooseDbVersion: struct {
		Name, Alias string
	}{
		Name:  "goose_db_version",
		Alias: "t",
	},
	Story: struct {
		Name, Alias string
	}{
		Name:  "stories",
		Alias: "t",
	},
	Tag: struct {
		Name, Alias string
	}{
		Name:  "tags",
		Alias: "t",
	},
}

type GooseDbVersion struct {
	tableName struct{} `pg:"goose_db_version,alias:t,discard_unknown_columns"`

	ID        int       `pg:"id,pk"`
	VersionID int64     `pg:"version_id,use_zero"`
	IsApplied bool      `pg:"is_applied,use_zero"`
	Tstamp    time.Time `pg:"tstamp,use_zero"`
}

type Story struct {
	tableName struct{} `pg:"stories,alias:t,discard_unknown_columns"`

	ID                string    `pg:"storyId,pk"`
	Title             string    `pg:"title,use_zero"`
	Content           string    `pg:"content,use_zero"`
	Image             *string   `pg:"image"`
	Author            string    `pg:"author,use_zero"`
	Website           string    `pg:"website,use_zero"`
	WebsiteButtonText string    `pg:"websiteButtonText,use_zero"`
	TagIDs            []string  `pg:"tagIds,array,use_zero"`
	CreatedAt         time.Time `pg:"createdAt,use_zero"`
	UpdatedAt         time.Time `pg:"updatedAt,use_zero"`
}

type Tag struct {
	tableName struct{} `pg:"tags,alias:t,discard_unknown_columns"`

	ID        string    `pg:"tagId,pk"`
	Name      string    `pg:"name,use_zero"`
	Color     string    `pg:"color,use_zero"`
	CreatedAt time.Time `pg:"createdAt,use_zero"`
}
