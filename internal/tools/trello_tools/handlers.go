package trello_tools

import (
	"context"
	"fmt"

	"github.com/teemow/trellomcp/internal/logging"
	"github.com/teemow/trellomcp/internal/trello"
)

type listCardsParams struct {
	ListID string `mapstructure:"list_id"`
}

type addCardParams struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	ListID      string `mapstructure:"list_id"`
	Due         string `mapstructure:"due"`
}

type updateCardParams struct {
	CardID      string  `mapstructure:"card_id"`
	Name        *string `mapstructure:"name"`
	Description *string `mapstructure:"description"`
	Due         *string `mapstructure:"due"`
	ListID      *string `mapstructure:"list_id"`
	Closed      *bool   `mapstructure:"closed"`
}

type cardIDParams struct {
	CardID string `mapstructure:"card_id"`
}

type listListsParams struct {
	IncludeClosed bool `mapstructure:"include_closed"`
}

func handleListCards(ctx context.Context, inv *invocation) (string, error) {
	var p listCardsParams
	if err := inv.decode(&p); err != nil {
		return "", err
	}

	var (
		cards []trello.Card
		err   error
	)
	if p.ListID != "" {
		cards, err = inv.client.ListCards(ctx, p.ListID)
	} else {
		cards, err = inv.client.BoardCards(ctx, inv.cfg.BoardID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to list cards: %w", err)
	}

	return formatCards(cards, inv.loc), nil
}

func handleAddCard(ctx context.Context, inv *invocation) (string, error) {
	var p addCardParams
	if err := inv.decode(&p); err != nil {
		return "", err
	}

	listID := p.ListID
	if listID == "" {
		if !inv.cfg.HasDefaultList() {
			return "", ErrNoTargetList
		}
		listID = inv.cfg.DefaultListID
	}

	card, err := inv.client.CreateCard(ctx, trello.CardCreate{
		Name:   p.Name,
		Desc:   p.Description,
		ListID: listID,
		Due:    p.Due,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create card: %w", err)
	}

	inv.logger.Info("card created", logging.Card(card.ID), logging.List(listID))
	return formatCreated(card), nil
}

func handleUpdateCard(ctx context.Context, inv *invocation) (string, error) {
	var p updateCardParams
	if err := inv.decode(&p); err != nil {
		return "", err
	}

	update := trello.CardUpdate{
		Name:   p.Name,
		Desc:   p.Description,
		Due:    p.Due,
		ListID: p.ListID,
		Closed: p.Closed,
	}
	if update.IsEmpty() {
		return "", ErrNothingToUpdate
	}

	card, err := inv.client.UpdateCard(ctx, p.CardID, update)
	if err != nil {
		return "", fmt.Errorf("failed to update card: %w", err)
	}

	inv.logger.Info("card updated", logging.Card(card.ID))
	return formatUpdated(card), nil
}

func handleDeleteCard(ctx context.Context, inv *invocation) (string, error) {
	var p cardIDParams
	if err := inv.decode(&p); err != nil {
		return "", err
	}

	if err := inv.client.DeleteCard(ctx, p.CardID); err != nil {
		return "", fmt.Errorf("failed to delete card: %w", err)
	}

	inv.logger.Info("card deleted", logging.Card(p.CardID))
	return formatDeleted(p.CardID), nil
}

func handleListBoards(ctx context.Context, inv *invocation) (string, error) {
	boards, err := inv.client.MemberBoards(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list boards: %w", err)
	}
	return formatBoards(boards), nil
}

func handleListLists(ctx context.Context, inv *invocation) (string, error) {
	var p listListsParams
	if err := inv.decode(&p); err != nil {
		return "", err
	}

	filter := trello.ListFilterOpen
	if p.IncludeClosed {
		filter = trello.ListFilterAll
	}

	lists, err := inv.client.BoardLists(ctx, inv.cfg.BoardID, filter)
	if err != nil {
		return "", fmt.Errorf("failed to list lists: %w", err)
	}
	return formatLists(lists), nil
}

func handleMarkDone(ctx context.Context, inv *invocation) (string, error) {
	var p cardIDParams
	if err := inv.decode(&p); err != nil {
		return "", err
	}

	closed := true
	card, err := inv.client.UpdateCard(ctx, p.CardID, trello.CardUpdate{Closed: &closed})
	if err != nil {
		return "", fmt.Errorf("failed to mark card as done: %w", err)
	}

	inv.logger.Info("card marked as done", logging.Card(card.ID))
	return formatMarkedDone(card), nil
}

func handleSetup(context.Context, *invocation) (string, error) {
	return setupInstructions, nil
}
