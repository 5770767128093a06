package analyzer

import "github.com/sells-group/script-analytics/internal/model"

func ptr[T any](v T) *T { return &v }

func nativeBasic() *model.YouTubeNativeBasic {
	return &model.YouTubeNativeBasic{
		Hook: model.NativeHook{Primary: "O segredo do app que 3 pessoas usam todo dia?"},
		NarrativeFlow: &model.NarrativeFlow{
			Identification: &model.FlowSegment{
				Content:            "Você já passou por isso?",
				EngagementElements: []string{"Pergunta retórica"},
			},
			Solution: &model.FlowSegment{Content: "O passo a passo"},
		},
		CTAStrategy: &model.CTAStrategy{Primary: "Comente abaixo"},
		RetentionOptimization: &model.RetentionOptimization{
			PatternInterrupts: []string{"0:45"},
			ValuePayoffs:      []string{"1:30"},
		},
	}
}

func nativePremium() *model.YouTubeNativePremium {
	return &model.YouTubeNativePremium{
		HookSystem: model.HookSystem{Primary: "Por que todo mundo erra isso"},
		NarrativeStructure: &model.NarrativeStructure{
			Act1Identification: &model.Act{Content: "Abertura", EngagementMechanics: []string{"Enquete"}},
		},
		ConversionStrategy: &model.ConversionStrategy{SoftCTAs: []string{"Link na descrição"}},
		OptimizationData: &model.OptimizationData{
			AlgorithmFactors:   []string{"watch time"},
			EngagementHotspots: []string{"1:00"},
		},
		Personalization: &model.Personalization{
			ChannelAdaptation: &model.ChannelAdaptation{BrandVoice: "direto"},
			TrendIntegration:  &model.TrendIntegration{CurrentTrends: "shorts"},
		},
	}
}

func traditionalPremium() *model.TraditionalPremium {
	return &model.TraditionalPremium{
		Hook: "Como organizar sua semana",
		MainContent: &model.MainContent{Sections: []model.Section{
			{Title: "Planejamento", Content: "Liste tudo"},
			{Title: "Execução", Content: "Faça blocos"},
		}},
		EngagementTips: []string{"Pergunte", "Fixe um comentário", "Responda"},
		ChannelPersonalization: &model.ChannelPersonalization{
			BasedOnTopVideos: []string{"Rotina produtiva"},
			SuccessPatterns:  []string{"listas"},
		},
	}
}

func fullChannel() *model.ChannelContext {
	return &model.ChannelContext{
		Niche:                 "tech",
		AverageEngagementRate: ptr(4.0),
		TopPerformingVideos:   []model.TopVideo{{Title: "Review", Views: 120000, Engagement: 5.1}},
		SuccessPatterns:       []string{"tutoriais"},
	}
}
