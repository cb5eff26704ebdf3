/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// Demo records loaded into the global user and chat indexes.

func SeedUsers() []User {
	return []User{
		{ID: "u1", Name: "User A"},
		{ID: "u2", Name: "User B"},
		{ID: "u3", Name: "User C"},
		{ID: "u4", Name: "User D"},
	}
}

func SeedChatBoards() []ChatBoard {
	return []ChatBoard{
		{
			ID:    "c1",
			Title: "General",
			Messages: []ChatMessage{
				{ID: "m1", ChatID: "c1", UserID: "u1", Text: "Hello", TS: 1700000000000},
			},
		},
		{
			ID:       "c2",
			Title:    "Billing",
			Messages: []ChatMessage{},
		},
	}
}
