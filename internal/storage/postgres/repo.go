// Package postgres implements the crawler's Repository port against
// PostgreSQL, in the shape of the teacher's internal/db/postgres
// adapters: database/sql, $N-placeholder queries, and duplicate-key
// substring translation to sentinel errors.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/hanaul/dc-harvester/internal/model"
	"github.com/hanaul/dc-harvester/internal/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate runs every pending goose migration embedded in this package.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("postgres: set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("postgres: run migrations: %w", err)
	}
	return nil
}

type repo struct {
	db *sql.DB
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// New creates a repository.Repository backed by db.
func New(db *sql.DB) repository.Repository {
	return &repo{db: db}
}

func (r *repo) FindPostByPlatformID(ctx context.Context, scenarioID model.Scenario, platformPostID string) (*model.Post, error) {
	query := `
		SELECT id, scenario_id, platform_post_id, url, title, contents,
		       writer, writer_id, writer_ip, written_at,
		       like_cnt, dislike_cnt, comment_cnt, COALESCE(fingerprint, '')
		FROM posts
		WHERE scenario_id = $1 AND platform_post_id = $2
	`

	var p model.Post
	err := r.db.QueryRowContext(ctx, query, string(scenarioID), platformPostID).Scan(
		&p.ID, &p.ScenarioID, &p.PlatformPostID, &p.URL, &p.Title, &p.Contents,
		&p.Writer, &p.WriterID, &p.WriterIP, &p.WrittenAt,
		&p.LikeCnt, &p.DislikeCnt, &p.CommentCnt, &p.Fingerprint,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find post by platform id: %w", err)
	}
	return &p, nil
}

func (r *repo) InsertPost(ctx context.Context, in model.PostInput) (*model.Post, error) {
	query := `
		INSERT INTO posts (
			scenario_id, platform_post_id, url, title, contents,
			writer, writer_id, writer_ip, written_at,
			like_cnt, dislike_cnt, comment_cnt, fingerprint
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13
		)
		RETURNING id
	`

	post := model.Post{
		ScenarioID:     in.ScenarioID,
		PlatformPostID: in.PlatformPostID,
		URL:            in.URL,
		Title:          in.Title,
		Contents:       in.Contents,
		Writer:         in.Writer,
		WriterID:       in.WriterID,
		WriterIP:       in.WriterIP,
		WrittenAt:      in.WrittenAt,
		LikeCnt:        in.LikeCnt,
		DislikeCnt:     in.DislikeCnt,
		CommentCnt:     in.CommentCnt,
		Fingerprint:    in.Fingerprint,
	}

	err := r.db.QueryRowContext(
		ctx, query,
		string(in.ScenarioID), in.PlatformPostID, in.URL, in.Title, in.Contents,
		in.Writer, in.WriterID, in.WriterIP, in.WrittenAt,
		in.LikeCnt, in.DislikeCnt, in.CommentCnt, nullIfEmpty(in.Fingerprint),
	).Scan(&post.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrDuplicatePost
		}
		return nil, fmt.Errorf("postgres: insert post: %w", err)
	}
	return &post, nil
}

func (r *repo) UpdatePostCommentCount(ctx context.Context, postID int64, commentCnt int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET comment_cnt = $1 WHERE id = $2`, commentCnt, postID)
	if err != nil {
		return fmt.Errorf("postgres: update post comment count: %w", err)
	}
	return nil
}

func (r *repo) ListRecentPosts(ctx context.Context, scenarioID model.Scenario, since time.Time) ([]model.LeanPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, platform_post_id, url, comment_cnt, COALESCE(fingerprint, '')
		FROM posts
		WHERE scenario_id = $1 AND written_at >= $2
		ORDER BY written_at DESC
	`, string(scenarioID), since)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent posts: %w", err)
	}
	defer rows.Close()

	var out []model.LeanPost
	for rows.Next() {
		var lp model.LeanPost
		if err := rows.Scan(&lp.ID, &lp.PlatformPostID, &lp.URL, &lp.CommentCnt, &lp.Fingerprint); err != nil {
			return nil, fmt.Errorf("postgres: scan recent post: %w", err)
		}
		out = append(out, lp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate recent posts: %w", err)
	}
	return out, nil
}

func (r *repo) InsertCommentsBulk(ctx context.Context, in []model.CommentInput) error {
	if len(in) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin comments tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO comments (
			platform_comment_id, post_id, scenario_id,
			writer, writer_id, writer_ip,
			contents, url, gallery, written_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (scenario_id, platform_comment_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("postgres: prepare comment insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range in {
		_, err := stmt.ExecContext(
			ctx,
			c.PlatformCommentID, c.PostID, string(c.ScenarioID),
			c.Writer, c.WriterID, c.WriterIP,
			c.Contents, c.URL, c.Gallery, c.WrittenAt,
		)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				continue
			}
			return fmt.Errorf("postgres: insert comment %s: %w", c.PlatformCommentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit comments tx: %w", err)
	}
	return nil
}

func (r *repo) CommentExists(ctx context.Context, scenarioID model.Scenario, platformCommentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM comments WHERE scenario_id = $1 AND platform_comment_id = $2
		)
	`, string(scenarioID), platformCommentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: comment exists: %w", err)
	}
	return exists, nil
}
