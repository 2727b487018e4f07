package topics

// Tópicos Kafka de auditoria do bet-maker.
const (
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"
)
