package xmss

// lTree compresses a WOTS+ public key (p.Len blocks of n bytes) into a
// single n-byte leaf by pairwise hashing, carrying an odd element
// straight through to the next level unchanged, exactly as in the
// L-tree construction of RFC8391. addr is mutated (its tree height and
// tree index are set at each level) but the caller's copy is
// unaffected since ADRS is passed by value at every call site below.
func lTree(hf HashFunc, n uint32, wotsPk []byte, pubSeed []byte, addr ADRS, wotsLen uint32) []byte {
	addr.SetType(AddrTypeLTree)
	buf := make([]byte, len(wotsPk))
	copy(buf, wotsPk)

	var height uint32
	l := wotsLen
	for l > 1 {
		addr.SetTreeHeight(height)
		parentNodes := l >> 1
		for i := uint32(0); i < parentNodes; i++ {
			addr.SetTreeIndex(i)
			node := h(hf, n, buf[2*i*n:(2*i+1)*n], buf[(2*i+1)*n:(2*i+2)*n], pubSeed, addr)
			copy(buf[i*n:(i+1)*n], node)
		}
		if l&1 == 1 {
			copy(buf[(l>>1)*n:(l>>1+1)*n], buf[(l-1)*n:l*n])
			l = (l >> 1) + 1
		} else {
			l = l >> 1
		}
		height++
	}
	leaf := make([]byte, n)
	copy(leaf, buf[:n])
	return leaf
}

// genLeaf derives the WOTS+ seed for leaf index (via otsAddr), expands
// it into a WOTS+ public key, and compresses it with lTree into the
// single leaf node the Merkle tree is built from.
func genLeaf(hf HashFunc, p *WOTSParams, skSeed, pubSeed []byte, lTreeAddr, otsAddr ADRS) []byte {
	seed := otsSeed(hf, p.N, skSeed, otsAddr)
	pk := wotsPkGen(hf, p, seed, pubSeed, otsAddr)
	return lTree(hf, p.N, pk, pubSeed, lTreeAddr, p.Len)
}

// otsSeed derives the per-leaf WOTS+ secret seed from the tree's
// SK_SEED: PRF(sk_seed, addr) with the OTS address's chain, hash and
// keyAndMask words cleared so only the OTS index (word 4) varies it.
func otsSeed(hf HashFunc, n uint32, skSeed []byte, addr ADRS) []byte {
	addr.SetChainAddress(0)
	addr.SetHashAddress(0)
	addr.SetKeyAndMask(0)
	return prfAddr(hf, n, skSeed, addr)
}

// hashNodes computes one interior tree-hash step combining the left
// and right children at the given tree height/index into their
// parent, under ADRS type hash-tree.
func hashNodes(hf HashFunc, n uint32, left, right, pubSeed []byte, treeHeight, treeIndex uint32, baseAddr ADRS) []byte {
	addr := baseAddr
	addr.SetType(AddrTypeHashTree)
	addr.SetTreeHeight(treeHeight)
	addr.SetTreeIndex(treeIndex)
	return h(hf, n, left, right, pubSeed, addr)
}
