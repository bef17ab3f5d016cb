package board

// SEE (Static Exchange Evaluation) estimates the material result of the
// capture sequence starting with m, from the perspective of the side to
// move. It simulates the full exchange on the destination square using the
// classic swap-list algorithm rather than just comparing the first capture.
func SEE(pos *Position, m Move) int {
	from := m.From()
	to := m.To()

	attacker := pos.PieceAt(from)
	if attacker == NoPiece {
		return 0
	}

	var capturedValue int
	if m.IsEnPassant() {
		capturedValue = PieceValue[Pawn]
	} else {
		victim := pos.PieceAt(to)
		if victim == NoPiece {
			return 0
		}
		capturedValue = PieceValue[victim.Type()]
	}

	if m.IsPromotion() {
		capturedValue += PieceValue[m.Promotion()] - PieceValue[Pawn]
	}

	return seeSwap(pos, to, from, attacker, capturedValue)
}

// seeSwap simulates alternating least-valuable-attacker captures on target
// and negamaxes the resulting gain list, per depth d.
func seeSwap(pos *Position, target, excludeFrom Square, firstAttacker Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ SquareBB(excludeFrom)
	attackerValue := PieceValue[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}

		attackerSq, attackerPiece := leastValuableAttacker(pos, target, side, occupied)
		if attackerSq == NoSquare {
			break
		}

		occupied &^= SquareBB(attackerSq)
		attackerValue = PieceValue[attackerPiece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// leastValuableAttacker finds the cheapest piece of side attacking target
// given occupied, respecting attackers already removed from the exchange.
func leastValuableAttacker(pos *Position, target Square, side Color, occupied Bitboard) (Square, Piece) {
	pawnAttackers := pos.Pieces[side][Pawn] & pawnAttacks[side.Other()][target] & occupied
	if pawnAttackers != 0 {
		return pawnAttackers.LSB(), NewPiece(Pawn, side)
	}

	knightAttackers := pos.Pieces[side][Knight] & KnightAttacks(target) & occupied
	if knightAttackers != 0 {
		return knightAttackers.LSB(), NewPiece(Knight, side)
	}

	bishopRay := BishopAttacks(target, occupied)
	bishopAttackers := pos.Pieces[side][Bishop] & bishopRay & occupied
	if bishopAttackers != 0 {
		return bishopAttackers.LSB(), NewPiece(Bishop, side)
	}

	rookRay := RookAttacks(target, occupied)
	rookAttackers := pos.Pieces[side][Rook] & rookRay & occupied
	if rookAttackers != 0 {
		return rookAttackers.LSB(), NewPiece(Rook, side)
	}

	queenAttackers := pos.Pieces[side][Queen] & (bishopRay | rookRay) & occupied
	if queenAttackers != 0 {
		return queenAttackers.LSB(), NewPiece(Queen, side)
	}

	kingAttackers := pos.Pieces[side][King] & KingAttacks(target) & occupied
	if kingAttackers != 0 {
		return kingAttackers.LSB(), NewPiece(King, side)
	}

	return NoSquare, NoPiece
}
