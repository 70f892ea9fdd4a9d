package bot

const (
	stateDefault           = ""
	stateAwaitingPlanPrice = "awaiting_plan_price"
)

func (b *Bot) setState(chatID int64, state string) {
	b.stateMutex.Lock()
	defer b.stateMutex.Unlock()
	if state == stateDefault {
		delete(b.userStates, chatID)
		return
	}
	b.userStates[chatID] = state
}

func (b *Bot) getState(chatID int64) string {
	b.stateMutex.Lock()
	defer b.stateMutex.Unlock()
	return b.userStates[chatID]
}
