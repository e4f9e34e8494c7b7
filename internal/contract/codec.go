package contract

import (
	"encoding/json"
	"fmt"
)

type commandJSON struct {
	Name   string `json:"name"`
	Column *int   `json:"column,omitempty"`
}

// MarshalJSON writes commands by name, with the column for moves.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	type plain Transaction
	cmds := make([]commandJSON, 0, len(tx.Commands))
	for _, cmd := range tx.Commands {
		c := commandJSON{Name: cmd.Name()}
		if col, ok := column(cmd); ok {
			c.Column = &col
		}
		cmds = append(cmds, c)
	}
	return json.Marshal(struct {
		Commands []commandJSON `json:"commands"`
		plain
	}{cmds, plain(tx)})
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	aux := struct {
		Commands []commandJSON `json:"commands"`
		*plain
	}{plain: (*plain)(tx)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	tx.Commands = make([]Command, 0, len(aux.Commands))
	for _, c := range aux.Commands {
		col := 0
		if c.Column != nil {
			col = *c.Column
		}
		cmd, err := ParseCommand(c.Name, col)
		if err != nil {
			return fmt.Errorf("decode transaction: %w", err)
		}
		tx.Commands = append(tx.Commands, cmd)
	}
	return nil
}
