package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mfx/internal/formatter"
	"github.com/desertthunder/mfx/internal/models"
	"github.com/desertthunder/mfx/internal/shared"
	"github.com/urfave/cli/v3"
)

const groupsPath = "/groups"

// GroupsList prints the caller's groups.
func (r *Runner) GroupsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}

	groups, err := r.client.Groups.List(ctx)
	if err != nil {
		return err
	}
	return r.emit(cmd, groups, formatter.GroupsTable(groups))
}

// GroupsCreate creates a group owned by the caller.
func (r *Runner) GroupsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: <name>", shared.ErrMissingArgument)
	}

	group, err := r.client.Groups.Create(ctx, name)
	if err != nil {
		return err
	}
	r.logger.Info("group created", "id", group.ID(), "name", group.DisplayName())
	return r.emit(cmd, group, formatter.GroupsTable([]models.Group{*group}))
}

// GroupsShow prints one group and its members.
func (r *Runner) GroupsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	group, err := r.client.Groups.Get(ctx, id)
	if err != nil {
		return err
	}
	return r.emit(cmd, group, formatter.MembersTable(*group))
}

// GroupsUpdate renames a group. Without --admin the current admin is kept.
func (r *Runner) GroupsUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	update := models.GroupUpdate{Name: cmd.String("name")}
	if admin := cmd.Int("admin"); admin > 0 {
		update.AdminID = &admin
	}

	group, err := r.client.Groups.Update(ctx, id, update)
	if err != nil {
		return err
	}
	return r.emit(cmd, group, formatter.GroupsTable([]models.Group{*group}))
}

// GroupsDelete deletes a group.
func (r *Runner) GroupsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.client.Groups.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted group %d\n", id)
}

// GroupsLeave removes the caller from a group.
func (r *Runner) GroupsLeave(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.client.Groups.Leave(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Left group %d\n", id)
}

// GroupsAddMember adds a friend by friend code.
func (r *Runner) GroupsAddMember(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	code := strings.TrimSpace(cmd.StringArg("friend-code"))
	if code == "" {
		return fmt.Errorf("%w: <friend-code>", shared.ErrMissingArgument)
	}

	if err := r.client.Groups.AddMember(ctx, id, code); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s to group %d\n", code, id)
}

// GroupsRemoveMember removes a member from a group.
func (r *Runner) GroupsRemoveMember(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	member, err := idArg(cmd, "user-id")
	if err != nil {
		return err
	}

	if err := r.client.Groups.RemoveMember(ctx, id, member); err != nil {
		return err
	}
	return r.writePlain("✓ Removed user %d from group %d\n", member, id)
}

// GroupsMatches prints the movies a group agrees on.
func (r *Runner) GroupsMatches(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireRoute(groupsPath); err != nil {
		return err
	}
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	matches, err := r.client.Groups.Matches(ctx, id)
	if err != nil {
		return err
	}
	return r.emit(cmd, matches, formatter.MatchesTable(id, matches))
}
